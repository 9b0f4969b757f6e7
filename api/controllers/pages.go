package controllers

import (
	"net/http"

	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/api/views"
	product "github.com/feiralivre/feiralivre-backend/internal/products"
)

// Home is the public landing page.
func Home(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.render(w, r, http.StatusOK, "home", views.Data{Title: "FeiraLivre"})
	}
}

// Dashboard is the signed-in vendor's start page: availability notice plus
// the vendor's product list.
func Dashboard(b *Base, svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := middleware.VendorFromContext(r.Context())

		items, err := svc.List(r.Context(), current.ID)
		if err != nil {
			b.renderError(w, r, err)
			return
		}
		b.render(w, r, http.StatusOK, "dashboard", views.Data{Title: "Painel", Content: items})
	}
}
