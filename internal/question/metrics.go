package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks deck assembly outcomes.
type Metrics struct {
	DecksAssembled     *prometheus.CounterVec
	QuestionsServed    *prometheus.CounterVec
	GenerationFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecksAssembled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "queple_decks_assembled_total",
			Help: "Decks assembled, labelled by composition mode.",
		}, []string{"mode"}),
		QuestionsServed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "queple_questions_served_total",
			Help: "Questions served in decks, labelled by source.",
		}, []string{"source"}),
		GenerationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "queple_ai_generation_failures_total",
			Help: "AI generation calls that produced zero items.",
		}),
	}
}
