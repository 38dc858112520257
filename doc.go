/*
Package sense bridges live host signals into debounced, read-only snapshots.

A host (a browser-like runtime, an embedded shell, a test fixture) exposes
objects at dotted paths such as "navigator.connection" or "window". Each
feature of this module watches one of those objects, listens to the events it
fires, and republishes its state as a Snapshot once the host has been quiet
for a short window. A feature the host does not expose is never an error: it
publishes its defaults with Support set to false.

# Basic Usage

Pick a feature package and start an accessor against an Environment:

	online := sense.NewAccessor(network.OnlineConfig())
	if err := online.Start(ctx, env); err != nil {
	    return err
	}
	defer online.Stop()

	online.OnChange(func(s sense.Snapshot[network.Online]) {
	    fmt.Println("online:", s.Value.OnLine)
	})

Env is a map-backed Environment for static hosts and tests. The hostfile
package provides one backed by a watched YAML or JSON document.

# Lifecycle

Every activation is a Bridge:

	Idle -> Probing -> {Unsupported | Ready} -> Subscribed -> TornDown

Probing asks a Probe whether the feature exists. Probes compose: FirstOf
tries vendor dialects in order, Via moves event subscription to another
object, WithEvents renames events, and Acquire resolves a handle
asynchronously. Once subscribed, every host event restarts the debounce
window and the handle is read when it expires. Extraction failures keep the
previous snapshot.

An Accessor owns the published Cell and replaces its Bridge when the
configuration identity (probe and wait) changes.

# Middleware

Refreshes run through a pipz pipeline. Use adds stages between extraction
and publication:

	acc.Use(sense.UseApply(clampID, func(ctx context.Context, r *sense.Refresh[viewport.Size]) (*sense.Refresh[viewport.Size], error) {
	    if r.Next.Value.Width > 8192 {
	        return r, errors.New("implausible width")
	    }
	    return r, nil
	}))

# Observability

Bridges emit capitan signals for every transition and failure, and report to
an optional MetricsProvider. The prometheus package provides one backed by
client_golang.

The package is built on top of:
  - capitan: For lifecycle signals
  - clockz: For deterministic debounce timing
  - pipz: For refresh pipelines
*/
package sense
