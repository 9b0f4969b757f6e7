package controllers

import (
	"net/http"
	"strings"

	"github.com/feiralivre/feiralivre-backend/api/views"
	"github.com/feiralivre/feiralivre-backend/internal/catalog"
)

// Catalog is the public product listing, optionally filtered by the q query
// parameter matching product or vendor names.
func Catalog(b *Base, svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		listings, err := svc.Search(r.Context(), query)
		if err != nil {
			b.renderError(w, r, err)
			return
		}
		b.render(w, r, http.StatusOK, "catalog", views.Data{Title: "Produtos", Query: query, Content: listings})
	}
}

// VendorsIndex lists every available vendor.
func VendorsIndex(b *Base, svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := svc.ListVendors(r.Context())
		if err != nil {
			b.renderError(w, r, err)
			return
		}
		b.render(w, r, http.StatusOK, "vendors", views.Data{Title: "Vendedores", Content: cards})
	}
}

// PublicProduct is the shopper-facing product page. Products whose vendor is
// unavailable are hidden as if they did not exist.
func PublicProduct(b *Base, svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		detail, err := svc.ProductDetail(r.Context(), id)
		if err != nil {
			b.notFoundOrError(w, r, err)
			return
		}
		b.render(w, r, http.StatusOK, "product_public", views.Data{Title: detail.Product.Name, Content: detail})
	}
}

// PublicVendor is a vendor's public storefront with their available products.
func PublicVendor(b *Base, svc catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		detail, err := svc.VendorDetail(r.Context(), id)
		if err != nil {
			b.notFoundOrError(w, r, err)
			return
		}
		b.render(w, r, http.StatusOK, "vendor_public", views.Data{Title: detail.Vendor.SellingName, Content: detail})
	}
}
