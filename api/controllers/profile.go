package controllers

import (
	"net/http"

	"github.com/feiralivre/feiralivre-backend/api/forms"
	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/api/views"
	vendor "github.com/feiralivre/feiralivre-backend/internal/vendors"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
)

// ProfileEditPage shows the profile form prefilled with the current data.
func ProfileEditPage(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := middleware.VendorFromContext(r.Context())
		form := forms.Profile{
			Email:        current.Email,
			FullName:     current.FullName,
			SellingName:  current.SellingName,
			Phone:        current.Phone,
			SaleLocation: current.SaleLocation,
			Available:    current.Available,
		}
		b.render(w, r, http.StatusOK, "profile_edit", views.Data{Title: "Editar perfil", Form: form})
	}
}

// ProfileEdit applies the posted changes, uploading a new photo when one was
// attached.
func ProfileEdit(b *Base, svc vendor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "formulário inválido", http.StatusBadRequest)
			return
		}

		form, fieldErrs := forms.ParseProfile(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "profile_edit", views.Data{Title: "Editar perfil", Form: form, Errors: fieldErrs})
			return
		}

		photoKey, err := b.saveUpload(r, "photo", "vendors")
		if err != nil {
			b.Logg.Error(r.Context(), "uploading vendor photo", err)
			r = b.flash(w, r, session.FlashError, msgUploadFailed)
			b.render(w, r, http.StatusUnprocessableEntity, "profile_edit", views.Data{Title: "Editar perfil", Form: form})
			return
		}

		current := middleware.VendorFromContext(r.Context())
		_, err = svc.UpdateProfile(r.Context(), current.ID, vendor.ProfileInput{
			Email:        form.Email,
			FullName:     form.FullName,
			SellingName:  form.SellingName,
			Phone:        form.Phone,
			SaleLocation: form.SaleLocation,
			Available:    form.Available,
			NewPassword:  form.NewPassword,
			PhotoKey:     photoKey,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
				r = b.flash(w, r, session.FlashError, msgEmailTaken)
				b.render(w, r, http.StatusUnprocessableEntity, "profile_edit", views.Data{Title: "Editar perfil", Form: form})
				return
			}
			b.renderError(w, r, err)
			return
		}

		b.flash(w, r, session.FlashSuccess, msgProfileUpdated)
		http.Redirect(w, r, "/painel/", http.StatusSeeOther)
	}
}
