package sense

import "github.com/zoobzio/capitan"

// Bridge lifecycle signals.
var (
	// BridgeActivated is emitted when a Bridge begins probing.
	BridgeActivated = capitan.NewSignal(
		"sense.bridge.activated",
		"Bridge activation started",
	)

	// BridgeUnsupported is emitted when the probe reports the feature as
	// unavailable and the default snapshot is published.
	BridgeUnsupported = capitan.NewSignal(
		"sense.bridge.unsupported",
		"Feature unsupported, defaults published",
	)

	// BridgeSubscribed is emitted once the handler is attached and the seed
	// refresh scheduled.
	BridgeSubscribed = capitan.NewSignal(
		"sense.bridge.subscribed",
		"Bridge subscribed to emitter",
	)

	// BridgeTornDown is emitted when a Bridge releases its subscription.
	BridgeTornDown = capitan.NewSignal(
		"sense.bridge.torn_down",
		"Bridge torn down",
	)

	// BridgeStateChanged is emitted when a Bridge transitions between states.
	BridgeStateChanged = capitan.NewSignal(
		"sense.bridge.state.changed",
		"Bridge state transition",
	)
)

// Failure and refresh signals.
var (
	// ProbeFailed is emitted when a probe panics or an acquisition fails.
	ProbeFailed = capitan.NewSignal(
		"sense.probe.failed",
		"Capability probe failed",
	)

	// SubscriptionFailed is emitted when attach or detach fails.
	SubscriptionFailed = capitan.NewSignal(
		"sense.subscription.failed",
		"Subscription attach or detach failed",
	)

	// ExtractFailed is emitted when a refresh cannot read the live handle.
	ExtractFailed = capitan.NewSignal(
		"sense.extract.failed",
		"Extraction failed, previous snapshot kept",
	)

	// RefreshSucceeded is emitted when a new snapshot is published.
	RefreshSucceeded = capitan.NewSignal(
		"sense.refresh.succeeded",
		"Snapshot refreshed",
	)
)
