package views

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/feiralivre/feiralivre-backend/api/forms"
	"github.com/feiralivre/feiralivre-backend/pkg/auth/session"
)

func TestNewParsesEveryPage(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	for _, page := range []string{
		"home", "login", "register", "dashboard", "profile_edit",
		"products_list", "product_form", "catalog", "vendors",
		"product_public", "vendor_public", "reset_request", "reset_confirm",
	} {
		if _, ok := renderer.pages[page]; !ok {
			t.Errorf("page %q not parsed", page)
		}
	}
}

func TestRenderLoginPage(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	rec := httptest.NewRecorder()
	err = renderer.Render(rec, 200, "login", Data{
		Title:   "Entrar",
		Form:    forms.Login{Email: "ana@example.com"},
		Errors:  map[string]string{"password": "campo obrigatório"},
		Flashes: []session.Flash{{Level: session.FlashError, Message: "E-mail ou senha incorretos."}},
	})
	if err != nil {
		t.Fatalf("rendering login: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`value="ana@example.com"`,
		"campo obrigatório",
		"E-mail ou senha incorretos.",
		`action="/login/"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	renderer, err := New(nil)
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}
	if err := renderer.Render(httptest.NewRecorder(), 200, "missing", Data{}); err == nil {
		t.Fatal("expected error for unknown page")
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(decimal.RequireFromString("25.5")); got != "R$ 25,50" {
		t.Fatalf("expected R$ 25,50, got %q", got)
	}
	if got := FormatPrice(decimal.Zero); got != "R$ 0,00" {
		t.Fatalf("expected R$ 0,00, got %q", got)
	}
}
