package sense

import "github.com/zoobzio/capitan"

// Field keys for Bridge events.
var (
	// KeyBridge is the unique id of the emitting Bridge.
	KeyBridge = capitan.NewStringKey("bridge")

	// KeyProbe identifies the probe target of the Bridge.
	KeyProbe = capitan.NewStringKey("probe")

	// KeyState is the current state of the Bridge.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyWait is the effective debounce window.
	KeyWait = capitan.NewDurationKey("wait")

	// KeyEvents is the number of event names subscribed.
	KeyEvents = capitan.NewIntKey("events")
)
