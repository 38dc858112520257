// Package prometheus exports sense bridge activity as Prometheus metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/sense"
)

const (
	namespace = "sense"
	subsystem = "bridge"
)

// Metrics holds the collectors shared by every feature. Each feature gets a
// sense.MetricsProvider through ForFeature that labels samples with its name.
type Metrics struct {
	// Transitions counts state transitions.
	// Labels: feature, from, to
	Transitions *prometheus.CounterVec

	// State is 1 for the current state of each feature and 0 otherwise.
	// Labels: feature, state
	State *prometheus.GaugeVec

	// Events counts host events delivered before debouncing.
	// Labels: feature, event
	Events *prometheus.CounterVec

	// Refreshes counts refresh outcomes.
	// Labels: feature, status (success, extract, pipeline)
	Refreshes *prometheus.CounterVec

	// RefreshSeconds measures refresh duration.
	// Labels: feature
	RefreshSeconds *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg uses
// the default registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "transitions_total",
			Help:      "Bridge state transitions",
		}, []string{"feature", "from", "to"}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state",
			Help:      "Current bridge state, 1 for the active state",
		}, []string{"feature", "state"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "Host events delivered to bridges before debouncing",
		}, []string{"feature", "event"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refreshes_total",
			Help:      "Refresh outcomes by status",
		}, []string{"feature", "status"}),
		RefreshSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refresh_seconds",
			Help:      "Refresh duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"feature"}),
	}
	for _, c := range []prometheus.Collector{m.Transitions, m.State, m.Events, m.Refreshes, m.RefreshSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ForFeature returns a provider that records under the given feature label.
func (m *Metrics) ForFeature(feature string) sense.MetricsProvider {
	return &provider{m: m, feature: feature}
}

type provider struct {
	m       *Metrics
	feature string
}

func (p *provider) OnStateChange(from, to sense.State) {
	p.m.Transitions.WithLabelValues(p.feature, from.String(), to.String()).Inc()
	p.m.State.WithLabelValues(p.feature, from.String()).Set(0)
	p.m.State.WithLabelValues(p.feature, to.String()).Set(1)
}

func (p *provider) OnRefreshSuccess(d time.Duration) {
	p.m.Refreshes.WithLabelValues(p.feature, "success").Inc()
	p.m.RefreshSeconds.WithLabelValues(p.feature).Observe(d.Seconds())
}

func (p *provider) OnRefreshFailure(stage string, d time.Duration) {
	p.m.Refreshes.WithLabelValues(p.feature, stage).Inc()
	p.m.RefreshSeconds.WithLabelValues(p.feature).Observe(d.Seconds())
}

func (p *provider) OnEventReceived(event string) {
	p.m.Events.WithLabelValues(p.feature, event).Inc()
}
