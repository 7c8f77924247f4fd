package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/internal/observability/metrics"
)

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil).Live(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthReady(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"postgres": ok}, nil).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}, nil).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, rec.Body.String())
}

type stubInvalidator struct {
	calls int
	err   error
}

func (s *stubInvalidator) Invalidate(context.Context) error {
	s.calls++
	return s.err
}

func TestAdminKnowledgeReload(t *testing.T) {
	src := knowledge.NewStaticSource(knowledge.Dataset{
		FAQs: []knowledge.FAQ{{ID: "f1", Question: "Do you take walk-ins?", Answer: "Yes, when a chair is free."}},
	})
	holder := knowledge.NewHolder(knowledge.NewLoader(src, nil, time.Second))
	cache := &stubInvalidator{}
	h := NewAdminKnowledgeHandler(holder, cache, nil)

	rec := httptest.NewRecorder()
	h.GetKnowledge(rec, httptest.NewRequest(http.MethodGet, "/admin/knowledge", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var before KnowledgeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Equal(t, 1, before.Counts["faqs"])
	assert.True(t, before.Fallback.Services)

	src.Data.FAQs = append(src.Data.FAQs, knowledge.FAQ{ID: "f2", Question: "Can I cancel?", Answer: "Up to 24 hours before."})

	rec = httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/admin/knowledge/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var after KnowledgeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, 2, after.Counts["faqs"])
	assert.Equal(t, 1, cache.calls)
	assert.Len(t, holder.Snapshot(context.Background()).FAQs, 2)
}

func TestAdminKnowledgeReloadCacheFailure(t *testing.T) {
	holder := knowledge.NewStaticHolder(knowledge.BuiltinSnapshot(time.Now()))
	h := NewAdminKnowledgeHandler(holder, &stubInvalidator{err: errors.New("redis down")}, nil)

	rec := httptest.NewRecorder()
	h.Reload(rec, httptest.NewRequest(http.MethodPost, "/admin/knowledge/reload", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNewAdminKnowledgeHandlerRequiresHolder(t *testing.T) {
	assert.Panics(t, func() { NewAdminKnowledgeHandler(nil, nil, nil) })
}

type fixedSessions int

func (f fixedSessions) Len() int { return int(f) }

func TestAdminStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewChatMetrics(reg)
	m.ObserveTurn(dialogue.IntentGreeting, dialogue.StepIdle, dialogue.StepIdle)
	m.ObserveBooking(dialogue.OutcomeStarted)

	rec := httptest.NewRecorder()
	NewAdminStatsHandler(reg, fixedSessions(3), nil).GetStats(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.LiveSessions)
	assert.Equal(t, int64(1), resp.TurnsByIntent["greeting"])
	assert.Equal(t, int64(1), resp.BookingsByOutcome["started"])
}
