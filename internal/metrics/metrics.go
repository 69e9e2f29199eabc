// Package metrics exports toast queue activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"marketplace-dashboard/internal/toast"
)

type Collector struct {
	live   prometheus.Gauge
	events *prometheus.CounterVec
	states *prometheus.CounterVec
}

// New creates the collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marketplace",
			Name:      "toasts_live",
			Help:      "Transaction toasts currently visible.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "toast_events_total",
			Help:      "Applied toast queue mutations by kind.",
		}, []string{"kind"}),
		states: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "transaction_states_total",
			Help:      "Transactions entering each lifecycle state.",
		}, []string{"state"}),
	}
	for _, col := range []prometheus.Collector{c.live, c.events, c.states} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe is a toast.Observer.
func (c *Collector) Observe(ev toast.Event) {
	c.events.WithLabelValues(string(ev.Kind)).Inc()
	switch ev.Kind {
	case toast.EventInserted:
		c.live.Inc()
		c.states.WithLabelValues(string(ev.Record.State)).Inc()
	case toast.EventUpdated:
		c.states.WithLabelValues(string(ev.Record.State)).Inc()
	case toast.EventRemoved:
		c.live.Dec()
	}
}
