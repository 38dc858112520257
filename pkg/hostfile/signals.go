package hostfile

import "github.com/zoobzio/capitan"

// Host document signals.
var (
	// HostLoaded is emitted after a document is applied.
	HostLoaded = capitan.NewSignal(
		"sense.host.loaded",
		"Host document applied",
	)

	// HostRejected is emitted when the host file cannot be read or fails
	// validation. The previous document stays in effect.
	HostRejected = capitan.NewSignal(
		"sense.host.rejected",
		"Host document rejected",
	)
)

// Field keys for host events.
var (
	// KeyPath is the host file path.
	KeyPath = capitan.NewStringKey("path")

	// KeyDispatched is the number of host events raised by a load.
	KeyDispatched = capitan.NewIntKey("dispatched")
)
