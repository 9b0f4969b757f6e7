package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/feiralivre/feiralivre-backend/api/forms"
	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/api/views"
	"github.com/feiralivre/feiralivre-backend/internal/auth"
	pkgauth "github.com/feiralivre/feiralivre-backend/pkg/auth"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	pkgerrors "github.com/feiralivre/feiralivre-backend/pkg/errors"
)

// LoginPage shows the login form. A vendor who is already signed in is sent
// straight to the dashboard.
func LoginPage(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.authenticated(r) {
			http.Redirect(w, r, "/painel/", http.StatusSeeOther)
			return
		}
		b.render(w, r, http.StatusOK, "login", views.Data{Title: "Entrar", Form: forms.Login{}})
	}
}

// Login authenticates a vendor and binds the session to them. Unknown email
// and wrong password surface the exact same notice.
func Login(b *Base, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, fieldErrs := forms.ParseLogin(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "login", views.Data{Title: "Entrar", Form: form, Errors: fieldErrs})
			return
		}

		vendor, err := svc.Login(r.Context(), form.Email, form.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				r = b.flash(w, r, session.FlashError, msgInvalidCredentials)
				b.render(w, r, http.StatusUnauthorized, "login", views.Data{Title: "Entrar", Form: form})
			case errors.Is(err, auth.ErrNotConfirmed):
				r = b.flash(w, r, session.FlashError, msgNotConfirmed)
				b.render(w, r, http.StatusUnauthorized, "login", views.Data{Title: "Entrar", Form: form})
			default:
				b.renderError(w, r, err)
			}
			return
		}

		// Fresh session id on privilege change.
		if old := middleware.SessionIDFromContext(r.Context()); old != "" {
			if err := b.Sessions.Destroy(r.Context(), old); err != nil {
				b.Logg.Error(r.Context(), "destroying pre-login session", err)
			}
		}
		sid, err := b.Sessions.Create(r.Context(), session.Record{VendorID: vendor.ID})
		if err != nil {
			b.renderError(w, r, err)
			return
		}
		b.setCookie(w, sid)
		http.Redirect(w, r, "/painel/", http.StatusSeeOther)
	}
}

// Logout drops the session and its cookie.
func Logout(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sid := middleware.SessionIDFromContext(r.Context()); sid != "" {
			if err := b.Sessions.Destroy(r.Context(), sid); err != nil {
				b.Logg.Error(r.Context(), "destroying session", err)
			}
		}
		b.clearCookie(w)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
	}
}

// RegisterPage shows the vendor sign-up form.
func RegisterPage(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.authenticated(r) {
			http.Redirect(w, r, "/painel/", http.StatusSeeOther)
			return
		}
		b.render(w, r, http.StatusOK, "register", views.Data{Title: "Cadastro", Form: forms.Register{}})
	}
}

// Register creates an inactive vendor account and mails the activation link.
func Register(b *Base, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, fieldErrs := forms.ParseRegister(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "register", views.Data{Title: "Cadastro", Form: form, Errors: fieldErrs})
			return
		}

		_, err := svc.Register(r.Context(), auth.RegisterInput{
			Email:        form.Email,
			Password:     form.Password,
			FullName:     form.FullName,
			SellingName:  form.SellingName,
			Phone:        form.Phone,
			SaleLocation: form.SaleLocation,
		})
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
				r = b.flash(w, r, session.FlashError, msgEmailTaken)
				b.render(w, r, http.StatusUnprocessableEntity, "register", views.Data{Title: "Cadastro", Form: form})
				return
			}
			b.renderError(w, r, err)
			return
		}

		b.flash(w, r, session.FlashSuccess, msgRegistered)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
	}
}

// Activate consumes an emailed activation token. Whatever the outcome, the
// visitor lands on the login page with a notice.
func Activate(b *Base, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		err := svc.Activate(r.Context(), token)
		switch {
		case err == nil:
			b.flash(w, r, session.FlashSuccess, msgActivated)
		case errors.Is(err, pkgauth.ErrTokenExpired):
			b.flash(w, r, session.FlashError, msgActivationExpired)
		case errors.Is(err, pkgauth.ErrTokenInvalid):
			b.flash(w, r, session.FlashError, msgActivationInvalid)
		default:
			b.renderError(w, r, err)
			return
		}
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
	}
}

// ResetRequestPage shows the "forgot password" form.
func ResetRequestPage(b *Base) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.render(w, r, http.StatusOK, "reset_request", views.Data{Title: "Recuperar senha", Form: forms.ResetRequest{}})
	}
}

// ResetRequest mails a reset link. The response is the same whether or not
// the email belongs to an account.
func ResetRequest(b *Base, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, fieldErrs := forms.ParseResetRequest(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "reset_request", views.Data{Title: "Recuperar senha", Form: form, Errors: fieldErrs})
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), form.Email); err != nil {
			b.renderError(w, r, err)
			return
		}

		b.flash(w, r, session.FlashInfo, msgResetRequested)
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
	}
}

// ResetConfirmPage shows the new-password form behind an emailed token. The
// token is checked up front so a dead link bounces straight back to the
// request form instead of failing after the visitor typed a password.
func ResetConfirmPage(b *Base, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		err := svc.VerifyResetToken(r.Context(), token)
		switch {
		case err == nil:
			b.render(w, r, http.StatusOK, "reset_confirm", views.Data{Title: "Nova senha", Form: forms.ResetConfirm{}, Content: token})
		case errors.Is(err, pkgauth.ErrTokenExpired):
			b.flash(w, r, session.FlashError, msgResetExpired)
			http.Redirect(w, r, "/password-reset/", http.StatusSeeOther)
		case errors.Is(err, pkgauth.ErrTokenInvalid):
			b.flash(w, r, session.FlashError, msgResetInvalid)
			http.Redirect(w, r, "/password-reset/", http.StatusSeeOther)
		default:
			b.renderError(w, r, err)
		}
	}
}

// ResetConfirm sets the new password when the token checks out.
func ResetConfirm(b *Base, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		form, fieldErrs := forms.ParseResetConfirm(r)
		if fieldErrs != nil {
			b.render(w, r, http.StatusUnprocessableEntity, "reset_confirm", views.Data{Title: "Nova senha", Form: form, Errors: fieldErrs, Content: token})
			return
		}

		err := svc.ResetPassword(r.Context(), token, form.Password, form.Confirmation)
		switch {
		case err == nil:
			b.flash(w, r, session.FlashSuccess, msgResetDone)
			http.Redirect(w, r, "/login/", http.StatusSeeOther)
		case errors.Is(err, auth.ErrPasswordMismatch):
			r = b.flash(w, r, session.FlashError, msgPasswordsDiff)
			b.render(w, r, http.StatusUnprocessableEntity, "reset_confirm", views.Data{Title: "Nova senha", Form: forms.ResetConfirm{}, Content: token})
		case errors.Is(err, pkgauth.ErrTokenExpired):
			b.flash(w, r, session.FlashError, msgResetExpired)
			http.Redirect(w, r, "/password-reset/", http.StatusSeeOther)
		case errors.Is(err, pkgauth.ErrTokenInvalid):
			b.flash(w, r, session.FlashError, msgResetInvalid)
			http.Redirect(w, r, "/password-reset/", http.StatusSeeOther)
		default:
			b.renderError(w, r, err)
		}
	}
}

// authenticated reports whether the request's session already belongs to a
// signed-in vendor. Used by pages that make no sense once logged in.
func (b *Base) authenticated(r *http.Request) bool {
	sid := middleware.SessionIDFromContext(r.Context())
	if sid == "" {
		return false
	}
	record, err := b.Sessions.Load(r.Context(), sid)
	if err != nil {
		return false
	}
	return record.Authenticated()
}
