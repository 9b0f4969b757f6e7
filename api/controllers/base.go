// Package controllers wires the HTTP form endpoints and public pages into the
// service layer. User-facing strings live here, in Portuguese; the services
// below speak English sentinels.
package controllers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/api/views"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"github.com/feiralivre/feiralivre-backend/pkg/storage"
)

// maxUploadBytes caps a single multipart form, images included.
const maxUploadBytes = 20 << 20

// Base carries the plumbing every page handler needs: template rendering,
// session flashes and the upload store.
type Base struct {
	Views    *views.Renderer
	Sessions *session.Manager
	Store    storage.Storage
	Logg     *logger.Logger
	Cookie   config.SessionConfig
}

// sessionID returns the request's session id, minting a fresh anonymous
// session cookie when the client has none. Flashes need a session to live in
// even before login.
func (b *Base) sessionID(w http.ResponseWriter, r *http.Request) string {
	if sid := middleware.SessionIDFromContext(r.Context()); sid != "" {
		return sid
	}
	sid := session.NewSessionID()
	b.setCookie(w, sid)
	return sid
}

func (b *Base) setCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     b.Cookie.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(b.Cookie.TTL / time.Second),
		HttpOnly: true,
		Secure:   b.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (b *Base) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     b.Cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   b.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// flash queues a one-shot notice for the next rendered page. It returns a
// request whose context carries the session id, so a render in the same
// request picks the notice up even when the session was just minted. A
// failure to store the notice is logged and swallowed: losing it never fails
// the request.
func (b *Base) flash(w http.ResponseWriter, r *http.Request, level, message string) *http.Request {
	sid := b.sessionID(w, r)
	if err := b.Sessions.AddFlash(r.Context(), sid, level, message); err != nil {
		b.Logg.Error(r.Context(), "storing flash message", err)
	}
	return r.WithContext(middleware.WithSessionID(r.Context(), sid))
}

// render draws a page, draining pending flashes and attaching the signed-in
// vendor when the request carries one.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.Data) {
	ctx := r.Context()
	data.Vendor = middleware.VendorFromContext(ctx)

	if sid := middleware.SessionIDFromContext(ctx); sid != "" {
		flashes, err := b.Sessions.PopFlashes(ctx, sid)
		if err != nil {
			b.Logg.Error(ctx, "draining flash messages", err)
		}
		data.Flashes = flashes
	}

	if err := b.Views.Render(w, status, page, data); err != nil {
		b.Logg.Error(ctx, "rendering page "+page, err)
	}
}

// renderError is the fallback page for unexpected service failures.
func (b *Base) renderError(w http.ResponseWriter, r *http.Request, err error) {
	b.Logg.Error(r.Context(), "handling request", err)
	http.Error(w, msgInternal, http.StatusInternalServerError)
}

// saveUpload stores one optional multipart file under prefix and returns its
// object key, or nil when the field was left empty.
func (b *Base) saveUpload(r *http.Request, field, prefix string) (*string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	key, err := b.storeFile(r, file, header, prefix)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// saveUploads stores every file posted under a repeatable field.
func (b *Base) saveUploads(r *http.Request, field, prefix string) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var keys []string
	for _, header := range r.MultipartForm.File[field] {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		key, err := b.storeFile(r, file, header, prefix)
		file.Close()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (b *Base) storeFile(r *http.Request, file multipart.File, header *multipart.FileHeader, prefix string) (string, error) {
	key := storage.NewObjectKey(prefix, header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := b.Store.Save(r.Context(), key, contentType, file); err != nil {
		return "", err
	}
	return key, nil
}
