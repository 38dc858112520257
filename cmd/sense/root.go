package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/sense"
	"github.com/zoobzio/sense/pkg/hostfile"
)

type rootFlags struct {
	host    string
	options string
	media   []string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "sense",
		Short: "Debounced host signal accessors driven by a host file",
		Long: `sense reads a host document (YAML or JSON) describing network, power,
layout, screen, visibility and media query state, and runs an accessor for
each feature against it. Editing the document raises the same events a live
host would, so snapshots update after the configured quiet window.

Examples:
  sense snapshot --host host.yaml
  sense watch --host host.yaml --options sense.yaml --media "(prefers-color-scheme: dark)"`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flags.host, "host", "", "host document path (required)")
	cmd.PersistentFlags().StringVar(&flags.options, "options", "", "options document path")
	cmd.PersistentFlags().StringSliceVar(&flags.media, "media", nil, "media queries to track")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log bridge diagnostics to stderr")
	_ = cmd.MarkPersistentFlagRequired("host") //nolint:errcheck // flag is defined above

	cmd.AddCommand(newWatchCmd(flags), newSnapshotCmd(flags))
	return cmd
}

// loadOptions reads the options document, or returns defaults when none is
// given.
func loadOptions(path string) (sense.Options, error) {
	if path == "" {
		return sense.Options{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sense.Options{}, fmt.Errorf("failed to read options %s: %w", path, err)
	}
	opts, err := sense.DecodeOptions(data, sense.CodecFor(path))
	if err != nil {
		return sense.Options{}, fmt.Errorf("invalid options %s: %w", path, err)
	}
	return opts, nil
}

// openHost loads the host document once so probes see it on start.
func openHost(path string) (*hostfile.Host, error) {
	h := hostfile.New(path)
	if err := h.Load(); err != nil {
		return nil, err
	}
	return h, nil
}

// hookDiagnostics prints bridge and host diagnostics to w.
func hookDiagnostics(w io.Writer) {
	capitan.Hook(sense.BridgeUnsupported, func(_ context.Context, e *capitan.Event) {
		probe, _ := sense.KeyProbe.From(e)
		reason, _ := sense.KeyError.From(e)
		fmt.Fprintf(w, "[UNSUPPORTED] %s: %s\n", probe, reason)
	})
	capitan.Hook(sense.ProbeFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := sense.KeyError.From(e)
		fmt.Fprintf(w, "[PROBE] %s\n", errMsg)
	})
	capitan.Hook(sense.ExtractFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := sense.KeyError.From(e)
		fmt.Fprintf(w, "[EXTRACT] %s\n", errMsg)
	})
	capitan.Hook(hostfile.HostRejected, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := sense.KeyError.From(e)
		fmt.Fprintf(w, "[REJECTED] %s\n", errMsg)
	})
	capitan.Hook(hostfile.HostLoaded, func(_ context.Context, e *capitan.Event) {
		n, _ := hostfile.KeyDispatched.From(e)
		fmt.Fprintf(w, "[HOST] reloaded, %d events\n", n)
	})
}
