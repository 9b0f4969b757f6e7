package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/feiralivre/feiralivre-backend/pkg/logger"
)

// requestIDHeader is honored when a proxy in front already assigned an id.
const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, echoes it on the response and
// threads it through the context logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > 64 {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
