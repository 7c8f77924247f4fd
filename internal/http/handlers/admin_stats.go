package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/elitecuts-assistant/internal/observability/metrics"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// SessionCounter reports live chat sessions.
type SessionCounter interface {
	Len() int
}

// AdminStatsHandler reports conversation and booking counters.
type AdminStatsHandler struct {
	gatherer prometheus.Gatherer
	sessions SessionCounter
	logger   *logging.Logger
}

// NewAdminStatsHandler creates the handler. A nil gatherer reads the default
// registry.
func NewAdminStatsHandler(gatherer prometheus.Gatherer, sessions SessionCounter, logger *logging.Logger) *AdminStatsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminStatsHandler{gatherer: gatherer, sessions: sessions, logger: logger}
}

// StatsResponse is the body of GET /admin/stats.
type StatsResponse struct {
	metrics.Summary
	LiveSessions int `json:"live_sessions"`
}

// GetStats summarizes the chat metrics.
func (h *AdminStatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	summary, err := metrics.Summarize(h.gatherer)
	if err != nil {
		h.logger.Error("gather metrics failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp := StatsResponse{Summary: summary}
	if h.sessions != nil {
		resp.LiveSessions = h.sessions.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}
