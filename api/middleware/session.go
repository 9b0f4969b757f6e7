package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"gorm.io/gorm"
)

const loginPath = "/login/"

type sessionLoader interface {
	Load(ctx context.Context, sid string) (*session.Record, error)
}

type vendorFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Vendor, error)
}

// Sessions stashes the client's session id in the context when the cookie is
// present. It never rejects: public pages use the session only for flashes.
func Sessions(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				r = r.WithContext(WithSessionID(r.Context(), cookie.Value))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireVendor gates vendor-side routes. An anonymous or stale session
// redirects to the login page. A session whose vendor id no longer resolves
// to a record is a hard not-found: it signals session/data inconsistency,
// not a user mistake.
func RequireVendor(sessions sessionLoader, vendors vendorFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sid := SessionIDFromContext(ctx)
			if sid == "" {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			record, err := sessions.Load(ctx, sid)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					http.Redirect(w, r, loginPath, http.StatusSeeOther)
					return
				}
				if logg != nil {
					logg.Error(ctx, "loading session failed", err)
				}
				http.Error(w, "erro interno", http.StatusInternalServerError)
				return
			}
			if !record.Authenticated() {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			vendor, err := vendors.FindByID(ctx, record.VendorID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					http.NotFound(w, r)
					return
				}
				if logg != nil {
					logg.Error(ctx, "resolving session vendor failed", err)
				}
				http.Error(w, "erro interno", http.StatusInternalServerError)
				return
			}

			ctx = WithVendor(ctx, vendor)
			if logg != nil {
				ctx = logg.WithVendorID(ctx, vendor.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
