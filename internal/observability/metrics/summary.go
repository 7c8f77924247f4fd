package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Summary is the operator view of the chat counters.
type Summary struct {
	ActiveSessions    int64            `json:"active_sessions"`
	TurnsByIntent     map[string]int64 `json:"turns_by_intent"`
	BookingsByOutcome map[string]int64 `json:"bookings_by_outcome"`
	SchedulerErrors   int64            `json:"scheduler_errors"`
}

// Summarize reads the chat metrics back out of a gatherer.
func Summarize(gatherer prometheus.Gatherer) (Summary, error) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return Summary{}, err
	}

	out := Summary{TurnsByIntent: map[string]int64{}, BookingsByOutcome: map[string]int64{}}
	for _, mf := range mfs {
		if mf == nil {
			continue
		}
		switch mf.GetName() {
		case "elitecuts_chat_active_sessions":
			for _, metric := range mf.Metric {
				out.ActiveSessions += int64(metric.GetGauge().GetValue())
			}
		case "elitecuts_chat_turns_total":
			sumByLabel(mf, "intent", out.TurnsByIntent)
		case "elitecuts_chat_bookings_total":
			sumByLabel(mf, "outcome", out.BookingsByOutcome)
		case "elitecuts_scheduler_calls_total":
			for _, metric := range mf.Metric {
				if labelValue(metric, "status") == "error" {
					out.SchedulerErrors += int64(metric.GetCounter().GetValue())
				}
			}
		}
	}
	return out, nil
}

func sumByLabel(mf *dto.MetricFamily, label string, into map[string]int64) {
	for _, metric := range mf.Metric {
		if metric == nil {
			continue
		}
		into[labelValue(metric, label)] += int64(metric.GetCounter().GetValue())
	}
}

func labelValue(metric *dto.Metric, name string) string {
	for _, lp := range metric.Label {
		if lp != nil && lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
