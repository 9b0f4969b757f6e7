package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/feiralivre/feiralivre-backend/pkg/logger"
)

// Pinger is the health-check surface a dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FeiraLivre-Env", cfg.App.Env)
		writeJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency and fails when any of them does.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FeiraLivre-Env", cfg.App.Env)

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				logg.Error(r.Context(), "readiness check failed: "+name, err)
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "up"
		}
		writeJSON(w, status, map[string]any{"status": statusWord(status), "checks": checks})
	}
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "ready"
	}
	return "degraded"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
