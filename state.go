package sense

// State represents the lifecycle position of a Bridge.
type State int32

const (
	// StateIdle indicates the bridge has not been activated.
	StateIdle State = iota

	// StateProbing indicates capability detection is in progress, including
	// a pending asynchronous acquisition.
	StateProbing

	// StateUnsupported indicates the feature is unavailable. The default
	// snapshot is published and nothing is subscribed.
	StateUnsupported

	// StateReady indicates a live handle was obtained and the subscription
	// is being created.
	StateReady

	// StateSubscribed indicates the bridge listens to its emitter and
	// refreshes the snapshot on events.
	StateSubscribed

	// StateTornDown indicates the bridge released its subscription. It never
	// publishes again.
	StateTornDown
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateUnsupported:
		return "unsupported"
	case StateReady:
		return "ready"
	case StateSubscribed:
		return "subscribed"
	case StateTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}
