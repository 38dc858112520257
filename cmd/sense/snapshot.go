package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSnapshotCmd(flags *rootFlags) *cobra.Command {
	var settle time.Duration
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print every feature once after its first refresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, settle)
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", 0, "extra time to wait after the longest quiet window")
	return cmd
}

func runSnapshot(ctx context.Context, out, errOut io.Writer, flags *rootFlags, settle time.Duration) error {
	opts, err := loadOptions(flags.options)
	if err != nil {
		return err
	}
	host, err := openHost(flags.host)
	if err != nil {
		return err
	}
	if flags.verbose {
		hookDiagnostics(errOut)
	}

	features := buildFeatures(opts, flags.media, nil)
	longest := time.Duration(0)
	for _, f := range features {
		if w := opts.Wait(f.name); w > longest {
			longest = w
		}
		if err := f.start(ctx, host); err != nil {
			return fmt.Errorf("failed to start %s: %w", f.name, err)
		}
		defer f.stop()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(longest + settle + 20*time.Millisecond):
	}

	result := make(map[string]any, len(features))
	for _, f := range features {
		result[f.name] = f.current()
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}
	_, err = out.Write(data)
	return err
}
