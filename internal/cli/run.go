package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Program    string
	Inputs     []string
	Output     string // canonical table file; empty skips it
	Start      string
	MaxSteps   int
	Timeout    time.Duration
	Parallel   int
	SortedTape bool
	Watch      bool
	Color      bool
	Stdout     io.Writer
	Logger     *slog.Logger
	Hooks      domain.LifecycleHooks
}

func (o RunOptions) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o RunOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

// Execute handles the run command: compile the program, write the canonical table
// and print one result line per input. In watch mode it repeats on every change
// to the program file until ctx is done.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Watch {
		return RunWatch(ctx, opts)
	}
	engine := createEngine(opts, opts.logger(), opts.Hooks)
	_, err := runOnce(ctx, opts, engine, file.NewSource(opts.Program))
	return handleExecutionError(err)
}

func runOnce(ctx context.Context, opts RunOptions, engine *turing.Engine, src ports.ProgramSource) ([]domain.Result, error) {
	p, err := engine.CompileSource(ctx, src)
	if err != nil {
		return nil, err
	}
	if opts.Output != "" {
		if err := writeCanonical(opts.Output, p); err != nil {
			return nil, err
		}
	}

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	r := turing.NewRunner(opts.stdout())
	if opts.Color {
		r.Renderer = tui.NewResultRenderer(opts.stdout())
	}
	results, err := r.Run(runCtx, p, opts.Inputs)
	if errors.Is(err, context.DeadlineExceeded) {
		return results, fmt.Errorf("run timed out after %s: %w", opts.Timeout, err)
	}
	return results, err
}

// writeCanonical replaces path with the five-field table.
func writeCanonical(path string, p *turing.Program) error {
	var buf bytes.Buffer
	if err := p.WriteCanonical(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
