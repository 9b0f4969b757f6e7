package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postForm(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseLoginValidation(t *testing.T) {
	_, errs := ParseLogin(postForm(t, url.Values{"email": {"not-an-email"}, "password": {""}}))
	if errs["email"] == "" || errs["password"] == "" {
		t.Fatalf("expected field errors for email and password, got %v", errs)
	}

	f, errs := ParseLogin(postForm(t, url.Values{"email": {" ana@example.com "}, "password": {"x"}}))
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if f.Email != "ana@example.com" {
		t.Fatalf("email not trimmed: %q", f.Email)
	}
}

func TestParseRegisterRequiresCoreFields(t *testing.T) {
	_, errs := ParseRegister(postForm(t, url.Values{
		"full_name": {"Ana"},
		"email":     {"ana@example.com"},
		"password":  {"123"},
	}))
	if errs["selling_name"] == "" {
		t.Errorf("missing selling_name error: %v", errs)
	}
	if errs["password"] == "" {
		t.Errorf("short password accepted: %v", errs)
	}
}

func TestParseProductPriceFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"25,50", "25.50", true},
		{"25.50", "25.50", true},
		{"10", "10.00", true},
		{"-1", "", false},
		{"abc", "", false},
	}

	for _, tc := range cases {
		f, errs := ParseProduct(postForm(t, url.Values{"name": {"Bolo"}, "price": {tc.raw}}))
		if tc.ok {
			if errs != nil {
				t.Errorf("price %q: unexpected errors %v", tc.raw, errs)
				continue
			}
			if got := f.Price.StringFixed(2); got != tc.want {
				t.Errorf("price %q parsed as %s, want %s", tc.raw, got, tc.want)
			}
		} else if errs["price"] == "" {
			t.Errorf("price %q: expected a price error, got %v", tc.raw, errs)
		}
	}
}

func TestParseProfileCheckbox(t *testing.T) {
	base := url.Values{
		"email":        {"ana@example.com"},
		"full_name":    {"Ana"},
		"selling_name": {"Bolos da Ana"},
	}

	f, errs := ParseProfile(postForm(t, base))
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if f.Available {
		t.Fatal("unchecked box parsed as true")
	}

	withBox := url.Values{}
	for k, v := range base {
		withBox[k] = v
	}
	withBox.Set("available", "on")
	f, _ = ParseProfile(postForm(t, withBox))
	if !f.Available {
		t.Fatal("checked box parsed as false")
	}
}
