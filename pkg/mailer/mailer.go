package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
)

const sendEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Message is a plaintext notification delivered to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages. Callers treat delivery as best-effort: failures
// are logged by the caller and never abort the operation that produced the
// message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Client talks to the SendGrid v3 mail send API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	from       string
	endpoint   string
}

// New builds a SendGrid-backed mailer. With no API key configured it returns
// a no-op mailer so dev environments run without outbound mail.
func New(cfg config.SendGridConfig) Mailer {
	if cfg.APIKey == "" {
		return &Nop{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     cfg.APIKey,
		from:       cfg.DefaultFrom,
		endpoint:   sendEndpoint,
	}
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send posts the message to SendGrid.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	payload := sendRequest{
		Personalizations: []personalization{{To: []address{{Email: msg.To}}}},
		From:             address{Email: c.from},
		Subject:          msg.Subject,
		Content:          []content{{Type: "text/plain", Value: msg.Body}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

// Nop discards every message.
type Nop struct{}

func (*Nop) Send(context.Context, Message) error { return nil }
