package sense

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key bridge events.
type MetricsProvider interface {
	// OnStateChange is called when the bridge transitions between states.
	OnStateChange(from, to State)

	// OnRefreshSuccess is called when a snapshot is published.
	// Duration covers extraction and publication.
	OnRefreshSuccess(duration time.Duration)

	// OnRefreshFailure is called when a refresh is dropped.
	// Stage is "extract" or "pipeline".
	OnRefreshFailure(stage string, duration time.Duration)

	// OnEventReceived is called for every host event delivered to the bridge,
	// before debouncing.
	OnEventReceived(event string)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                   {}
func (NoOpMetricsProvider) OnRefreshSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnRefreshFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnEventReceived(_ string)                   {}
