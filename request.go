package sense

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Refresh carries one refresh attempt through a Bridge pipeline.
// Middleware sees Next after extraction and before publication; changing
// Next changes what is published, failing drops the refresh.
type Refresh[T any] struct {
	// Handle is the live host object being read.
	Handle any

	// Previous is the snapshot published before this refresh.
	Previous Snapshot[T]

	// Next is the snapshot about to be published.
	Next Snapshot[T]

	extractErr error
	version    uint64
}

// UseTransform creates a middleware stage that rewrites the refresh.
// Cannot fail.
func UseTransform[T any](id pipz.Identity, fn func(context.Context, *Refresh[T]) *Refresh[T]) pipz.Chainable[*Refresh[T]] {
	return pipz.Transform(id, fn)
}

// UseApply creates a middleware stage that can rewrite the refresh or fail.
// A failure drops the refresh and keeps the previous snapshot.
func UseApply[T any](id pipz.Identity, fn func(context.Context, *Refresh[T]) (*Refresh[T], error)) pipz.Chainable[*Refresh[T]] {
	return pipz.Apply(id, fn)
}

// UseEffect creates a middleware stage that observes the refresh without
// changing it.
func UseEffect[T any](id pipz.Identity, fn func(context.Context, *Refresh[T]) error) pipz.Chainable[*Refresh[T]] {
	return pipz.Effect(id, fn)
}

// UseMutate creates a middleware stage that rewrites the refresh only when
// condition holds.
func UseMutate[T any](id pipz.Identity, transformer func(context.Context, *Refresh[T]) *Refresh[T], condition func(context.Context, *Refresh[T]) bool) pipz.Chainable[*Refresh[T]] {
	return pipz.Mutate(id, transformer, condition)
}

// UseEnrich creates a middleware stage whose failure is ignored: the refresh
// continues with its unmodified input.
func UseEnrich[T any](id pipz.Identity, fn func(context.Context, *Refresh[T]) (*Refresh[T], error)) pipz.Chainable[*Refresh[T]] {
	return pipz.Enrich(id, fn)
}

// -----------------------------------------------------------------------------
// Wrapping middleware
// -----------------------------------------------------------------------------
// These wrap another stage. Refreshes run under the bridge lock, so none of
// them sleep between attempts.

// Wrapper identities.
var (
	retryID    = pipz.NewIdentity("sense:retry", "Retries a refresh stage")
	timeoutID  = pipz.NewIdentity("sense:timeout", "Bounds a refresh stage")
	fallbackID = pipz.NewIdentity("sense:fallback", "Tries refresh stages in order")
)

// UseRetry retries processor immediately up to maxAttempts times.
func UseRetry[T any](maxAttempts int, processor pipz.Chainable[*Refresh[T]]) pipz.Chainable[*Refresh[T]] {
	return pipz.NewRetry(retryID, processor, maxAttempts)
}

// UseTimeout fails the refresh when processor runs longer than d.
func UseTimeout[T any](d time.Duration, processor pipz.Chainable[*Refresh[T]]) pipz.Chainable[*Refresh[T]] {
	return pipz.NewTimeout(timeoutID, processor, d)
}

// UseFallback tries primary, then each fallback in order, until one succeeds.
func UseFallback[T any](primary pipz.Chainable[*Refresh[T]], fallbacks ...pipz.Chainable[*Refresh[T]]) pipz.Chainable[*Refresh[T]] {
	all := append([]pipz.Chainable[*Refresh[T]]{primary}, fallbacks...)
	return pipz.NewFallback(fallbackID, all...)
}

// UseFilter runs processor only when condition holds. Otherwise the refresh
// passes through unchanged.
func UseFilter[T any](id pipz.Identity, condition func(context.Context, *Refresh[T]) bool, processor pipz.Chainable[*Refresh[T]]) pipz.Chainable[*Refresh[T]] {
	return pipz.NewFilter(id, condition, processor)
}
