package sense

import "context"

// ChannelEmitter is an Emitter fed from a channel of event names. It adapts
// sources that already produce notifications, such as a socket reader or a
// test, into host events.
type ChannelEmitter struct {
	*EventTarget
	ch <-chan string
}

// NewChannelEmitter creates a ChannelEmitter reading from ch.
func NewChannelEmitter(ch <-chan string) *ChannelEmitter {
	return &ChannelEmitter{EventTarget: NewEventTarget(), ch: ch}
}

// Run dispatches every name received on the channel until ctx is done or
// the channel closes.
func (e *ChannelEmitter) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-e.ch:
			if !ok {
				return
			}
			e.Dispatch(name, nil)
		}
	}
}
