package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// CacheInvalidator drops cached shop data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AdminKnowledgeHandler lets operators inspect and reload the shop data.
type AdminKnowledgeHandler struct {
	holder *knowledge.Holder
	cache  CacheInvalidator
	logger *logging.Logger
}

// NewAdminKnowledgeHandler creates the handler. cache may be nil.
func NewAdminKnowledgeHandler(holder *knowledge.Holder, cache CacheInvalidator, logger *logging.Logger) *AdminKnowledgeHandler {
	if holder == nil {
		panic("handlers: knowledge holder required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminKnowledgeHandler{holder: holder, cache: cache, logger: logger}
}

// KnowledgeSummary describes a snapshot without dumping it.
type KnowledgeSummary struct {
	LoadedAt time.Time           `json:"loaded_at"`
	Counts   map[string]int      `json:"counts"`
	Fallback knowledge.Fallbacks `json:"fallback"`
	Degraded bool                `json:"degraded"`
}

func summarize(snap *knowledge.Snapshot) KnowledgeSummary {
	return KnowledgeSummary{
		LoadedAt: snap.LoadedAt,
		Counts: map[string]int{
			"services":        len(snap.Services),
			"barbers":         len(snap.Barbers),
			"faqs":            len(snap.FAQs),
			"promotions":      len(snap.Promotions),
			"working_hours":   len(snap.Hours),
			"styles":          len(snap.Styles),
			"specializations": len(snap.Specializations),
			"locations":       len(snap.Locations),
		},
		Fallback: snap.Fallback,
		Degraded: snap.Degraded,
	}
}

// GetKnowledge summarizes the current snapshot.
func (h *AdminKnowledgeHandler) GetKnowledge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summarize(h.holder.Snapshot(r.Context())))
}

// Reload drops the cache and loads a fresh snapshot. Sessions already open
// keep the snapshot they started with.
func (h *AdminKnowledgeHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context()); err != nil {
			h.logger.Error("knowledge cache invalidation failed", "error", err)
			jsonError(w, "cache invalidation failed", http.StatusBadGateway)
			return
		}
	}
	snap := h.holder.Reload(r.Context())
	h.logger.Info("knowledge reloaded", "fallback", snap.Fallback.Any())
	writeJSON(w, http.StatusOK, summarize(snap))
}
