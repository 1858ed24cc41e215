package turing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	machine "github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/morphett"
	"github.com/aretw0/turing/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Engine is the high-level entry point for the Turing library.
// It compiles programs and runs them with a shared set of execution options.
type Engine struct {
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	stepLimit    int
	initialState string
	parallelism  int
	sortedTape   bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Hooks from repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepLimit halts runs after limit transitions with a step-limit label.
// Zero, the default, lets machines run until they halt.
func WithStepLimit(limit int) Option {
	return func(e *Engine) {
		e.stepLimit = limit
	}
}

// WithInitialState starts runs in state instead of the first state of the program.
func WithInitialState(state string) Option {
	return func(e *Engine) {
		e.initialState = state
	}
}

// WithParallelism bounds how many inputs RunAll executes at once.
// Zero, the default, uses GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// WithSortedTape renders final tapes left to right by position instead of in
// the order cells were first written.
func WithSortedTape(sorted bool) Option {
	return func(e *Engine) {
		e.sortedTape = sorted
	}
}

// New initializes a new Turing Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.parallelism <= 0 {
		eng.parallelism = runtime.GOMAXPROCS(0)
	}
	return eng
}

// Program is a compiled, sealed transition table bound to the engine that built it.
// A Program is safe for concurrent use.
type Program struct {
	Name   string
	engine *Engine
	table  *domain.Table
}

// Compile compiles program text.
func (e *Engine) Compile(src string) (*Program, error) {
	var opts []compiler.Option
	if e.initialState != "" {
		opts = append(opts, compiler.WithInitialState(e.initialState))
	}
	table, err := compiler.Compile(src, opts...)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("program compiled", "states", len(table.States()), "transitions", table.Len())
	return &Program{engine: e, table: table}, nil
}

// CompileFile reads and compiles the program at path.
func (e *Engine) CompileFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	p, err := e.Compile(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Name = filepath.Base(path)
	return p, nil
}

// CompileSource reads and compiles the current text of src.
func (e *Engine) CompileSource(ctx context.Context, src ports.ProgramSource) (*Program, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	p, err := e.Compile(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	p.Name = src.Name()
	return p, nil
}

// FromTable wraps an existing table, e.g. one loaded from a TableStore.
// The table is copied, so the caller keeps ownership of its own.
func (e *Engine) FromTable(table *domain.Table) *Program {
	t := table.Clone()
	if e.initialState != "" {
		// Clone is unsealed, so this cannot fail.
		_ = t.SetInitialState(e.initialState)
	}
	t.Seal()
	return &Program{engine: e, table: t}
}

// Table returns the sealed transition table.
func (p *Program) Table() *domain.Table {
	return p.table
}

// Run executes the program on one input tape.
// Halting is reported in the Result; the only errors are ctx's.
func (p *Program) Run(ctx context.Context, input string) (domain.Result, error) {
	m := machine.NewMachine(input,
		machine.WithTable(p.table),
		machine.WithStepLimit(p.engine.stepLimit),
		machine.WithSortedTape(p.engine.sortedTape),
		machine.WithLifecycleHooks(p.engine.hooks),
		machine.WithLogger(p.engine.logger),
	)
	return m.Run(ctx)
}

// RunAll executes the program on every input, each on its own machine, at most
// the engine's parallelism at a time. Results are in input order and always
// complete: an input whose run was cut short by ctx has reason Interrupted.
// The error is the first interruption, in input order.
func (p *Program) RunAll(ctx context.Context, inputs []string) ([]domain.Result, error) {
	results := make([]domain.Result, len(inputs))
	err := p.RunEach(ctx, inputs, func(i int, res domain.Result) error {
		results[i] = res
		return nil
	})
	return results, err
}

// RunEach runs inputs like RunAll and hands each result to yield in input order,
// as soon as that input and every earlier one have finished. A machine that never
// halts only holds back the inputs after it.
//
// If yield fails, the remaining runs are cancelled and its error is returned.
// Otherwise the error is the first interruption, in input order.
func (p *Program) RunEach(ctx context.Context, inputs []string, yield func(i int, res domain.Result) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]domain.Result, len(inputs))
	errs := make([]error, len(inputs))
	done := make([]chan struct{}, len(inputs))
	for i := range done {
		done[i] = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(p.engine.parallelism)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, input := range inputs {
			g.Go(func() error {
				defer close(done[i])
				results[i], errs[i] = p.Run(ctx, input)
				return nil
			})
		}
	}()
	wait := func() {
		<-launched
		_ = g.Wait()
	}

	for i := range inputs {
		<-done[i]
		if err := yield(i, results[i]); err != nil {
			cancel()
			wait()
			return err
		}
	}
	wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteCanonical writes the table in the five-field canonical format.
func (p *Program) WriteCanonical(w io.Writer) error {
	return morphett.Encode(w, p.table)
}
