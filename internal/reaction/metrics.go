package reaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts recorded reactions by kind.
type Metrics struct {
	Recorded *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Recorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "queple_reactions_recorded_total",
			Help: "Reactions durably recorded, labelled by reaction kind.",
		}, []string{"reaction"}),
	}
}
