package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/shopbot/pkg/domain"
)

const namespace = "shopbot"

// Metrics holds the bot's collectors.
type Metrics struct {
	Turns        *prometheus.CounterVec
	FlowsStarted prometheus.Counter
	FlowsEnded   *prometheus.CounterVec
	Steps        *prometheus.CounterVec
	Reprompts    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Inbound activities handled, by activity type.",
		}, []string{"activity_type"}),
		FlowsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_started_total",
			Help:      "Shopping conversations started.",
		}),
		FlowsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_ended_total",
			Help:      "Shopping conversations ended, by reason.",
		}, []string{"reason"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_executions_total",
			Help:      "Conversation steps executed, by step.",
		}, []string{"step"}),
		Reprompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reprompts_total",
			Help:      "Replies rejected and asked again, by step.",
		}, []string{"step"}),
	}

	for _, c := range []prometheus.Collector{m.Turns, m.FlowsStarted, m.FlowsEnded, m.Steps, m.Reprompts} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks feeds the collectors from lifecycle events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			m.Turns.WithLabelValues(activityLabel(e.ActivityType)).Inc()
		},
		OnFlowStart: func(context.Context, *domain.FlowEvent) {
			m.FlowsStarted.Inc()
		},
		OnFlowEnd: func(_ context.Context, e *domain.FlowEvent) {
			m.FlowsEnded.WithLabelValues(string(e.Reason)).Inc()
		},
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(string(e.StepID)).Inc()
		},
		OnReprompt: func(_ context.Context, e *domain.StepEvent) {
			m.Reprompts.WithLabelValues(string(e.StepID)).Inc()
		},
	}
}

// activityLabel keeps the label set bounded: the type comes from the client.
func activityLabel(t domain.ActivityType) string {
	switch t {
	case domain.ActivityMessage, domain.ActivityConversationUpdate:
		return string(t)
	}
	return "other"
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
