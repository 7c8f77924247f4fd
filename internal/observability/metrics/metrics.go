package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
)

// ChatMetrics exposes counters/histograms for conversations, bookings and
// shop-data loading.
type ChatMetrics struct {
	turnsTotal      *prometheus.CounterVec
	stepTransitions *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	externalTotal   *prometheus.CounterVec
	externalLatency *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
	sessionsClosed  *prometheus.CounterVec
	fetchTotal      *prometheus.CounterVec
	fetchLatency    *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elitecuts",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Conversation turns by classified intent",
		}, []string{"intent"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elitecuts",
			Subsystem: "chat",
			Name:      "booking_step_transitions_total",
			Help:      "Booking step changes",
		}, []string{"from", "to"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elitecuts",
			Subsystem: "chat",
			Name:      "bookings_total",
			Help:      "Booking flows by outcome",
		}, []string{"outcome"}),
		externalTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elitecuts",
			Subsystem: "scheduler",
			Name:      "calls_total",
			Help:      "Scheduling backend calls",
		}, []string{"op", "status"}),
		externalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "elitecuts",
			Subsystem: "scheduler",
			Name:      "call_latency_seconds",
			Help:      "Latency of scheduling backend calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "elitecuts",
			Subsystem: "chat",
			Name:      "active_sessions",
			Help:      "Open chat sessions",
		}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elitecuts",
			Subsystem: "chat",
			Name:      "sessions_closed_total",
			Help:      "Closed chat sessions by reason",
		}, []string{"reason"}),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "elitecuts",
			Subsystem: "knowledge",
			Name:      "fetch_total",
			Help:      "Shop-data collection fetches",
		}, []string{"collection", "status"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "elitecuts",
			Subsystem: "knowledge",
			Name:      "fetch_latency_seconds",
			Help:      "Latency of shop-data collection fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.stepTransitions, m.bookingsTotal, m.externalTotal,
		m.externalLatency, m.activeSessions, m.sessionsClosed, m.fetchTotal, m.fetchLatency)
	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *ChatMetrics) ObserveTurn(intent dialogue.Intent, from, to dialogue.Step) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(string(intent)).Inc()
	if from != to {
		m.stepTransitions.WithLabelValues(string(from), string(to)).Inc()
	}
}

func (m *ChatMetrics) ObserveBooking(outcome dialogue.Outcome) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(string(outcome)).Inc()
}

func (m *ChatMetrics) ObserveExternalCall(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.externalTotal.WithLabelValues(op, status(err)).Inc()
	m.externalLatency.WithLabelValues(op).Observe(d.Seconds())
}

func (m *ChatMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *ChatMetrics) SessionClosed(reason string) {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
	m.sessionsClosed.WithLabelValues(reason).Inc()
}

// ObserveFetch matches knowledge.WithFetchObserver.
func (m *ChatMetrics) ObserveFetch(collection string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(collection, status(err)).Inc()
	m.fetchLatency.WithLabelValues(collection).Observe(d.Seconds())
}

var _ dialogue.Observer = (*ChatMetrics)(nil)
