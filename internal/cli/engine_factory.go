package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
)

// createEngine initializes an engine with standard CLI conventions.
func createEngine(opts RunOptions, logger *slog.Logger, extra ...domain.LifecycleHooks) *turing.Engine {
	engineOpts := []turing.Option{
		turing.WithLogger(logger),
		turing.WithStepLimit(opts.MaxSteps),
		turing.WithParallelism(opts.Parallel),
		turing.WithSortedTape(opts.SortedTape),
	}
	if opts.Start != "" {
		engineOpts = append(engineOpts, turing.WithInitialState(opts.Start))
	}

	// Result lines already go to stdout; the trace is only for debugging.
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		engineOpts = append(engineOpts, turing.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	for _, hooks := range extra {
		engineOpts = append(engineOpts, turing.WithLifecycleHooks(hooks))
	}

	return turing.New(engineOpts...)
}
