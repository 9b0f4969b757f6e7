package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"gorm.io/gorm"
)

type fakeSessions struct {
	records map[string]*session.Record
}

func (f *fakeSessions) Load(_ context.Context, sid string) (*session.Record, error) {
	rec, ok := f.records[sid]
	if !ok {
		return nil, session.ErrNotFound
	}
	return rec, nil
}

type fakeVendors struct {
	vendors map[uint]*models.Vendor
}

func (f *fakeVendors) FindByID(_ context.Context, id uint) (*models.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func gatedHandler(t *testing.T, sessions *fakeSessions, vendors *fakeVendors, got **models.Vendor) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = VendorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return Sessions("flsid")(RequireVendor(sessions, vendors, nil)(next))
}

func TestRequireVendorWithoutCookieRedirectsToLogin(t *testing.T) {
	var got *models.Vendor
	h := gatedHandler(t, &fakeSessions{}, &fakeVendors{}, &got)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/painel/", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login/" {
		t.Fatalf("expected redirect to /login/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if got != nil {
		t.Fatal("handler ran without a session")
	}
}

func TestRequireVendorStaleSessionRedirects(t *testing.T) {
	var got *models.Vendor
	h := gatedHandler(t, &fakeSessions{records: map[string]*session.Record{}}, &fakeVendors{}, &got)

	req := httptest.NewRequest(http.MethodGet, "/painel/", nil)
	req.AddCookie(&http.Cookie{Name: "flsid", Value: "gone"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
}

func TestRequireVendorAnonymousSessionRedirects(t *testing.T) {
	var got *models.Vendor
	sessions := &fakeSessions{records: map[string]*session.Record{"sid-1": {}}}
	h := gatedHandler(t, sessions, &fakeVendors{}, &got)

	req := httptest.NewRequest(http.MethodGet, "/painel/", nil)
	req.AddCookie(&http.Cookie{Name: "flsid", Value: "sid-1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for flash-only session, got %d", rec.Code)
	}
}

func TestRequireVendorMissingRecordIsNotFound(t *testing.T) {
	var got *models.Vendor
	sessions := &fakeSessions{records: map[string]*session.Record{"sid-1": {VendorID: 42}}}
	h := gatedHandler(t, sessions, &fakeVendors{}, &got)

	req := httptest.NewRequest(http.MethodGet, "/painel/", nil)
	req.AddCookie(&http.Cookie{Name: "flsid", Value: "sid-1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for dangling vendor id, got %d", rec.Code)
	}
}

func TestRequireVendorResolvesVendor(t *testing.T) {
	var got *models.Vendor
	sessions := &fakeSessions{records: map[string]*session.Record{"sid-1": {VendorID: 42}}}
	vendors := &fakeVendors{vendors: map[uint]*models.Vendor{42: {ID: 42, SellingName: "Bolos da Ana"}}}
	h := gatedHandler(t, sessions, vendors, &got)

	req := httptest.NewRequest(http.MethodGet, "/painel/", nil)
	req.AddCookie(&http.Cookie{Name: "flsid", Value: "sid-1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.ID != 42 {
		t.Fatalf("vendor not injected: %+v", got)
	}
}
