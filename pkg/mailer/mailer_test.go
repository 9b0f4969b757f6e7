package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
)

func TestClientSendPostsSendGridPayload(t *testing.T) {
	var got sendRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := &Client{
		httpClient: &http.Client{Timeout: time.Second},
		apiKey:     "sg-key",
		from:       "contato@feiralivre.app",
		endpoint:   srv.URL,
	}

	err := client.Send(context.Background(), Message{
		To:      "maria@example.com",
		Subject: "Confirme seu cadastro",
		Body:    "ola",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer sg-key" {
		t.Errorf("authorization header = %q", auth)
	}
	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "maria@example.com" {
		t.Errorf("unexpected recipients: %+v", got.Personalizations)
	}
	if got.From.Email != "contato@feiralivre.app" {
		t.Errorf("from = %q", got.From.Email)
	}
	if got.Subject != "Confirme seu cadastro" {
		t.Errorf("subject = %q", got.Subject)
	}
}

func TestClientSendReportsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	client := &Client{
		httpClient: &http.Client{Timeout: time.Second},
		apiKey:     "wrong",
		endpoint:   srv.URL,
	}

	err := client.Send(context.Background(), Message{To: "maria@example.com"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNewWithoutAPIKeyIsNop(t *testing.T) {
	m := New(config.SendGridConfig{})
	if _, ok := m.(*Nop); !ok {
		t.Fatalf("expected Nop mailer, got %T", m)
	}
	if err := m.Send(context.Background(), Message{To: "x@example.com"}); err != nil {
		t.Fatalf("Nop.Send: %v", err)
	}
}
