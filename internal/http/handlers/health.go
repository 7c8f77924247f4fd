package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// Pinger is a dependency the readiness check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
	logger  *logging.Logger
}

// NewHealthHandler creates a handler probing checks on readiness.
func NewHealthHandler(checks map[string]Pinger, logger *logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthHandler{checks: checks, timeout: 2 * time.Second, logger: logger}
}

// Live always answers ok while the process is serving.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready probes every dependency and answers 503 if any fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", "check", name, "error", err)
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": overall, "checks": results})
}
