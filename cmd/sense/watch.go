package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	senseprom "github.com/zoobzio/sense/pkg/prometheus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run accessors against the host file and print each snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func runWatch(ctx context.Context, out, errOut io.Writer, flags *rootFlags, metricsAddr string) error {
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

	var metrics *senseprom.Metrics
	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		if metrics, err = senseprom.New(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	features := buildFeatures(opts, flags.media, metrics)
	printer := &snapshotPrinter{w: out}
	for _, f := range features {
		name := f.name
		unsubscribe := f.onChange(func(s any) { printer.print(name, s) })
		defer unsubscribe()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return host.Watch(ctx)
	})
	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	for _, f := range features {
		if err := f.start(ctx, host); err != nil {
			return fmt.Errorf("failed to start %s: %w", f.name, err)
		}
		defer f.stop()
	}
	for _, f := range features {
		printer.print(f.name, f.current())
	}

	return g.Wait()
}

// snapshotPrinter writes one YAML document per snapshot.
type snapshotPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *snapshotPrinter) print(name string, snapshot any) {
	data, err := yaml.Marshal(map[string]any{name: snapshot})
	if err != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "---\n%s", data)
}
