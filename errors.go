package sense

import "errors"

// Failure taxonomy. None of these are returned to callers of Activate; they
// are recorded on the bridge (LastError, ErrorHistory) and emitted as signals.
var (
	// ErrUnsupportedFeature means the probe found no usable capability.
	// The default snapshot is published and nothing is subscribed.
	ErrUnsupportedFeature = errors.New("feature unsupported")

	// ErrProbeFailure means asynchronous acquisition failed or resolved
	// empty. It degrades to ErrUnsupportedFeature.
	ErrProbeFailure = errors.New("probe failed")

	// ErrExtractionFailure means the live object could not be read during a
	// refresh. The refresh is dropped and the previous snapshot kept.
	ErrExtractionFailure = errors.New("extraction failed")

	// ErrSubscriptionFailure means attach or detach against the emitter
	// failed. It is absorbed.
	ErrSubscriptionFailure = errors.New("subscription failed")
)
