package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves /health. Every registered dependency must answer within the timeout.
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 3 * time.Second}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			results[name] = "down: " + err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}
	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Checks: results, Message: "one or more checks failed"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: results})
}
