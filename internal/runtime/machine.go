package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/google/uuid"
)

// cancelCheckInterval is how many steps run between context checks.
const cancelCheckInterval = 1024

// Machine runs one input against a transition table.
// Each machine owns its tape. A table shared between machines must be sealed
// before any of them runs; Run seals it, but adding transitions to a table another
// machine is reading is a data race.
type Machine struct {
	table      *domain.Table
	tape       *Tape
	input      string
	runID      string
	stepLimit  int
	sortedTape bool
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithTable shares a compiled table instead of starting from an empty one.
// Seal the table first when several machines will run it concurrently.
func WithTable(table *domain.Table) Option {
	return func(m *Machine) {
		m.table = table
	}
}

// WithStepLimit stops the run after limit transitions. Zero means no limit.
func WithStepLimit(limit int) Option {
	return func(m *Machine) {
		m.stepLimit = limit
	}
}

// WithSortedTape renders the final tape left to right instead of in write order.
func WithSortedTape(sorted bool) Option {
	return func(m *Machine) {
		m.sortedTape = sorted
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRunID sets the correlation ID reported in events. By default a UUID is generated.
func WithRunID(id string) Option {
	return func(m *Machine) {
		m.runID = id
	}
}

// NewMachine creates a machine whose tape holds input, head at position 0.
func NewMachine(input string, opts ...Option) *Machine {
	m := &Machine{
		tape:   NewTape(input),
		input:  input,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.table == nil {
		m.table = domain.NewTable()
	}
	if m.runID == "" {
		m.runID = uuid.NewString()
	}
	return m
}

// Add validates and inserts a transition into the machine's table.
func (m *Machine) Add(t domain.Transition) error {
	return m.table.Add(t)
}

// SetInitialState overrides the state the run begins in.
func (m *Machine) SetInitialState(state string) error {
	return m.table.SetInitialState(state)
}

// Table returns the machine's transition table.
func (m *Machine) Table() *domain.Table {
	return m.table
}

// Tape returns the machine's tape.
func (m *Machine) Tape() *Tape {
	return m.tape
}

// RunID returns the correlation ID of this machine's run.
func (m *Machine) RunID() string {
	return m.runID
}

// Run steps the machine until it halts. Halting is never an error: the three ways
// a machine stops (halting state, no transition, unknown state) and the step limit
// are reported in the Result. The only error is the context's; the Result then
// holds the tape as far as it got, with reason Interrupted.
//
// Run seals the table; no transitions can be added afterwards.
func (m *Machine) Run(ctx context.Context) (domain.Result, error) {
	m.table.Seal()
	start := time.Now()

	state := m.table.InitialState()
	steps := 0

	for {
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return m.halt(ctx, start, domain.InterruptedLabel(err), domain.Interrupted, steps), err
			}
		}

		if !m.table.HasState(state) {
			return m.halt(ctx, start, domain.NoStateLabel(state), domain.NoState, steps), nil
		}

		symbol := m.tape.Read()
		t, ok := m.table.Lookup(state, symbol)
		if !ok {
			return m.halt(ctx, start, domain.NoTransitionLabel(state, symbol), domain.NoTransition, steps), nil
		}

		if m.stepLimit > 0 && steps >= m.stepLimit {
			return m.halt(ctx, start, domain.StepLimitLabel(m.stepLimit), domain.StepLimit, steps), nil
		}

		head := m.tape.Head()
		m.tape.Write(t.NewCell)
		m.tape.Move(t.Move())
		state = t.NewState
		steps++

		if m.hooks.OnStep != nil {
			m.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, RunID: m.runID},
				Step:       steps,
				Head:       head,
				Symbol:     symbol,
				Transition: t,
			})
		}

		if domain.IsHalting(state) {
			return m.halt(ctx, start, state, domain.HaltState, steps), nil
		}
	}
}

func (m *Machine) halt(ctx context.Context, start time.Time, label string, reason domain.HaltReason, steps int) domain.Result {
	tape := m.tape.String()
	if m.sortedTape {
		tape = m.tape.Sorted()
	}
	res := domain.Result{
		Input:  m.input,
		Tape:   tape,
		State:  label,
		Reason: reason,
		Steps:  steps,
	}

	m.logger.Debug("machine halted", "run_id", m.runID, "state", label, "reason", reason, "steps", steps)
	if m.hooks.OnHalt != nil {
		m.hooks.OnHalt(ctx, &domain.HaltEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt, RunID: m.runID},
			Result:    res,
			Duration:  time.Since(start),
		})
	}
	return res
}
