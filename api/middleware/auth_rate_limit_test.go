package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	counts map[string]int64
}

func (f *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func postLogin(h http.Handler, email string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimitBlocksByEmail(t *testing.T) {
	store := &fakeLimiterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	h := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		if rec := postLogin(h, "Ana@Example.com"); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d blocked early: %d", i+1, rec.Code)
		}
	}
	// casing and padding normalize to the same counter
	if rec := postLogin(h, "  ana@example.com "); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt not blocked: %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksByIP(t *testing.T) {
	store := &fakeLimiterStore{}
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	h := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if rec := postLogin(h, "a@example.com"); rec.Code != http.StatusOK {
		t.Fatalf("first attempt blocked: %d", rec.Code)
	}
	if rec := postLogin(h, "b@example.com"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt from same ip not blocked: %d", rec.Code)
	}
}

func TestAuthRateLimitIgnoresGET(t *testing.T) {
	store := &fakeLimiterStore{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	h := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d throttled: %d", i+1, rec.Code)
		}
	}
	if len(store.counts) != 0 {
		t.Fatalf("GET requests consumed rate limit budget: %v", store.counts)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	h := AuthRateLimit(policy, &fakeLimiterStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		if rec := postLogin(h, "ana@example.com"); rec.Code != http.StatusOK {
			t.Fatalf("disabled policy blocked request: %d", rec.Code)
		}
	}
}
