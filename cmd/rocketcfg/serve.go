package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/internal/report"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the design's configurations and engine metrics over HTTP",
		Long: `Serve builds the design once and exposes it until interrupted:

  /metrics              Prometheus metrics
  /configs              every configuration, as JSON
  /configs/{id}         one configuration, as JSON
  /configs/{id}/instances  the configuration's placed instances`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, err := a.buildRocket(ctx, a.cfg.Design)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.MetricsAddr
			}
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return a.runServer(ctx, lis, r)
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address (default metrics_addr)")
	return cmd
}

// runServer serves r on lis until ctx is done.
func (a *app) runServer(ctx context.Context, lis net.Listener, r *core.Rocket) error {
	srv := &http.Server{
		Handler:           a.newServeMux(r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	a.log.Info(ctx, "serving flight configurations", logging.String("addr", lis.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServeMux exposes r read-only. The rocket performs no locking, so
// handlers take turns.
func (a *app) newServeMux(r *core.Rocket) *http.ServeMux {
	var mu sync.Mutex
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", a.metrics.Handler())

	mux.HandleFunc("GET /configs", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		out := report.Describe(r)
		mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /configs/{id}", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		fc, ok := r.FlightConfiguration(core.FlightConfigurationID(req.PathValue("id")))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown flight configuration"})
			return
		}
		writeJSON(w, http.StatusOK, report.DescribeConfiguration(fc, fc == r.SelectedConfiguration()))
	})
	mux.HandleFunc("GET /configs/{id}/instances", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		fc, ok := r.FlightConfiguration(core.FlightConfigurationID(req.PathValue("id")))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown flight configuration"})
			return
		}
		writeJSON(w, http.StatusOK, report.ListInstances(fc))
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
