package middleware

import (
	"context"

	"github.com/feiralivre/feiralivre-backend/pkg/db/models"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxVendor    contextKey = "vendor"
)

// SessionIDFromContext returns the request's session id, or "" when the
// client carried no session cookie.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// VendorFromContext returns the resolved vendor on session-gated routes, or
// nil on public ones.
func VendorFromContext(ctx context.Context) *models.Vendor {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxVendor).(*models.Vendor); ok {
		return v
	}
	return nil
}

// WithSessionID injects the session id into the context.
func WithSessionID(ctx context.Context, sid string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sid)
}

// WithVendor injects the resolved vendor into the context.
func WithVendor(ctx context.Context, vendor *models.Vendor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxVendor, vendor)
}
