package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/feiralivre/feiralivre-backend/api/middleware"
	"github.com/feiralivre/feiralivre-backend/api/views"
	"github.com/feiralivre/feiralivre-backend/internal/auth"
	pkgauth "github.com/feiralivre/feiralivre-backend/pkg/auth"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
	"github.com/feiralivre/feiralivre-backend/pkg/storage/local"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", session.ErrNotFound
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memStore) SessionKey(sid string) string { return "session:" + sid }

type fakeAuth struct {
	loginFn       func(ctx context.Context, email, password string) (*models.Vendor, error)
	activateFn    func(ctx context.Context, token string) error
	verifyResetFn func(ctx context.Context, token string) error
}

func (f *fakeAuth) Register(ctx context.Context, input auth.RegisterInput) (*models.Vendor, error) {
	return nil, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*models.Vendor, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return nil, auth.ErrInvalidCredentials
}

func (f *fakeAuth) Activate(ctx context.Context, token string) error {
	if f.activateFn != nil {
		return f.activateFn(ctx, token)
	}
	return nil
}

func (f *fakeAuth) RequestPasswordReset(ctx context.Context, email string) error { return nil }

func (f *fakeAuth) VerifyResetToken(ctx context.Context, token string) error {
	if f.verifyResetFn != nil {
		return f.verifyResetFn(ctx, token)
	}
	return nil
}

func (f *fakeAuth) ResetPassword(ctx context.Context, token, password, confirmation string) error {
	return nil
}

func newTestBase(t *testing.T) *Base {
	t.Helper()

	renderer, err := views.New(nil)
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	mem := &memStore{data: map[string]string{}}
	sessions, err := session.NewManagerWithStore(mem, mem, time.Hour)
	if err != nil {
		t.Fatalf("building session manager: %v", err)
	}

	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("building local store: %v", err)
	}

	return &Base{
		Views:    renderer,
		Sessions: sessions,
		Store:    store,
		Logg:     logger.New(logger.Options{Output: io.Discard}),
		Cookie:   config.SessionConfig{CookieName: "flsid", TTL: time.Hour},
	}
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginWrongPasswordShowsGenericNotice(t *testing.T) {
	base := newTestBase(t)
	handler := Login(base, &fakeAuth{})

	rec := httptest.NewRecorder()
	handler(rec, postForm("/login/", url.Values{"email": {"ana@example.com"}, "password": {"wrong"}}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgInvalidCredentials) {
		t.Fatalf("expected invalid-credentials notice in body")
	}
}

func TestLoginInactiveAccountShowsConfirmationNotice(t *testing.T) {
	base := newTestBase(t)
	handler := Login(base, &fakeAuth{
		loginFn: func(ctx context.Context, email, password string) (*models.Vendor, error) {
			return nil, auth.ErrNotConfirmed
		},
	})

	rec := httptest.NewRecorder()
	handler(rec, postForm("/login/", url.Values{"email": {"ana@example.com"}, "password": {"secret"}}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgNotConfirmed) {
		t.Fatalf("expected not-confirmed notice in body")
	}
}

func TestLoginSuccessSetsSessionCookieAndRedirects(t *testing.T) {
	base := newTestBase(t)
	handler := Login(base, &fakeAuth{
		loginFn: func(ctx context.Context, email, password string) (*models.Vendor, error) {
			return &models.Vendor{ID: 7, Email: email, Active: true}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler(rec, postForm("/login/", url.Values{"email": {"ana@example.com"}, "password": {"secret"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/painel/" {
		t.Fatalf("expected redirect to /painel/, got %q", loc)
	}

	var sid string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "flsid" && cookie.Value != "" {
			sid = cookie.Value
		}
	}
	if sid == "" {
		t.Fatal("expected session cookie to be set")
	}

	record, err := base.Sessions.Load(context.Background(), sid)
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if record.VendorID != 7 {
		t.Fatalf("expected session bound to vendor 7, got %d", record.VendorID)
	}
}

func TestLoginValidationErrorsRerenderForm(t *testing.T) {
	base := newTestBase(t)
	handler := Login(base, &fakeAuth{})

	rec := httptest.NewRecorder()
	handler(rec, postForm("/login/", url.Values{"email": {"not-an-email"}, "password": {""}}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestActivateExpiredTokenRedirectsWithNotice(t *testing.T) {
	base := newTestBase(t)

	router := chi.NewRouter()
	router.Use(middleware.Sessions("flsid"))
	router.Get("/ativar/{token}/", Activate(base, &fakeAuth{
		activateFn: func(ctx context.Context, token string) error {
			return pkgauth.ErrTokenExpired
		},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ativar/stale-token/", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login/" {
		t.Fatalf("expected redirect to /login/, got %q", loc)
	}

	var sid string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "flsid" {
			sid = cookie.Value
		}
	}
	if sid == "" {
		t.Fatal("expected an anonymous session cookie carrying the notice")
	}
	flashes, err := base.Sessions.PopFlashes(context.Background(), sid)
	if err != nil {
		t.Fatalf("popping flashes: %v", err)
	}
	if len(flashes) != 1 || flashes[0].Message != msgActivationExpired {
		t.Fatalf("expected expired-link notice, got %+v", flashes)
	}
}

func TestResetConfirmPageExpiredTokenRedirectsWithNotice(t *testing.T) {
	base := newTestBase(t)

	router := chi.NewRouter()
	router.Use(middleware.Sessions("flsid"))
	router.Get("/password-reset/{token}/", ResetConfirmPage(base, &fakeAuth{
		verifyResetFn: func(ctx context.Context, token string) error {
			return pkgauth.ErrTokenExpired
		},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/password-reset/stale-token/", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/password-reset/" {
		t.Fatalf("expected redirect to /password-reset/, got %q", loc)
	}

	var sid string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "flsid" {
			sid = cookie.Value
		}
	}
	if sid == "" {
		t.Fatal("expected an anonymous session cookie carrying the notice")
	}
	flashes, err := base.Sessions.PopFlashes(context.Background(), sid)
	if err != nil {
		t.Fatalf("popping flashes: %v", err)
	}
	if len(flashes) != 1 || flashes[0].Message != msgResetExpired {
		t.Fatalf("expected expired-link notice, got %+v", flashes)
	}
}

func TestResetConfirmPageValidTokenRendersForm(t *testing.T) {
	base := newTestBase(t)

	router := chi.NewRouter()
	router.Use(middleware.Sessions("flsid"))
	router.Get("/password-reset/{token}/", ResetConfirmPage(base, &fakeAuth{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/password-reset/fresh-token/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/password-reset/fresh-token/"`) {
		t.Fatalf("expected the form to post back to the tokenized path")
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	base := newTestBase(t)

	sid, err := base.Sessions.Create(context.Background(), session.Record{VendorID: 3})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.Sessions("flsid"))
	router.Get("/logout/", Logout(base))

	req := httptest.NewRequest(http.MethodGet, "/logout/", nil)
	req.AddCookie(&http.Cookie{Name: "flsid", Value: sid})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if _, err := base.Sessions.Load(context.Background(), sid); err != session.ErrNotFound {
		t.Fatalf("expected session destroyed, got %v", err)
	}
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	logg := logger.New(logger.Options{Output: io.Discard})

	handler := HealthReady(cfg, logg, map[string]Pinger{
		"database": pingerFunc(func(ctx context.Context) error { return nil }),
		"redis":    pingerFunc(func(ctx context.Context) error { return context.DeadlineExceeded }),
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"redis":"down"`) || !strings.Contains(body, `"database":"up"`) {
		t.Fatalf("unexpected readiness body: %s", body)
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
