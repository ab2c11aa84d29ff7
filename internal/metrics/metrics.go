package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the quiz server.
type Metrics struct {
	ConnectionsTotal   prometheus.Counter
	ActiveSessions     prometheus.Gauge
	AnswersTotal       *prometheus.CounterVec
	FinalizationsTotal prometheus.Counter
	SaveFailuresTotal  prometheus.Counter
}

// New registers the quiz server collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quizmaster",
			Name:      "connections_total",
			Help:      "Total websocket connections accepted",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "quizmaster",
			Name:      "active_sessions",
			Help:      "Participants currently mid-quiz",
		}),
		AnswersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quizmaster",
			Name:      "answers_total",
			Help:      "Submitted answers by outcome",
		}, []string{"outcome"}),
		FinalizationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quizmaster",
			Name:      "finalizations_total",
			Help:      "Sessions finalized into a result",
		}),
		SaveFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quizmaster",
			Name:      "result_save_failures_total",
			Help:      "Result persistence failures (non-fatal to the session)",
		}),
	}
}
