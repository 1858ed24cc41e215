package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/spf13/cobra"
)

// defaultServeSteps bounds runs submitted over HTTP when no limit is configured,
// so one looping program cannot pin a worker forever.
const defaultServeSteps = 1_000_000

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves compile and run endpoints plus a table store over HTTP.

  POST /compile              compile program text
  POST /run                  compile and run inputs
  GET  /tables               list stored tables
  PUT  /tables/{name}        compile and store (diff is broadcast)
  GET  /tables/{name}        stored table (?format=canonical for text)
  POST /tables/{name}/run    run a stored table
  GET  /tables/{name}/events server-sent diffs
  GET  /metrics              Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		backend, err := cli.OpenBackend(sigCtx, cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close()

		steps := cfg.MaxSteps
		if steps == 0 {
			steps = defaultServeSteps
		}
		metrics := observability.NewMetrics()
		engine := turing.New(
			turing.WithLogger(logger),
			turing.WithStepLimit(steps),
			turing.WithParallelism(cfg.Parallel),
			turing.WithSortedTape(cfg.SortedTape),
			turing.WithLifecycleHooks(metrics.Hooks()),
		)

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithStore(backend.Store),
			httpAdapter.WithLocker(backend.Locker),
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithTimeout(cfg.Timeout),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Turing Server", "addr", srv.Addr, "store", cfg.Store.Kind, "max_steps", steps)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			logger.Info("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Turing Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Address to listen on (default :8080)")
	serveCmd.Flags().String("store", "", "Table store: memory, file or redis (default memory)")
	serveCmd.Flags().Int("max-steps", 0, fmt.Sprintf("Step limit per run (0 = %d)", defaultServeSteps))
	serveCmd.Flags().Duration("timeout", 0, "Request timeout, runs included (0 = none)")
	serveCmd.Flags().Int("parallel", 0, "Inputs run at once per request (0 = one per CPU)")
}
