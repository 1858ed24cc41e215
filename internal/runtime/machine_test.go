package runtime_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(state, cell, write, move, next string) domain.Transition {
	return domain.Transition{CurrentState: state, CurrentCell: cell, NewCell: write, Direction: move, NewState: next}
}

func TestMachine_Run(t *testing.T) {
	m := runtime.NewMachine("1")
	require.NoError(t, m.Add(tr("a", "1", "0", "r", "halt-b")))
	require.NoError(t, m.Add(tr("b", "*", "*", "stay", "halt-b")))

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "halt-b", res.State)
	assert.Equal(t, "0", res.Tape)
	assert.Equal(t, domain.HaltState, res.Reason)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 1, m.Tape().Head())
}

func TestMachine_Add(t *testing.T) {
	m := runtime.NewMachine("")
	require.NoError(t, m.Add(tr("a", "1", "0", "r", "b")))
	assert.ErrorIs(t, m.Add(tr("a", "1", "1", "l", "b")), domain.ErrDuplicateTransition)
	assert.NoError(t, m.Add(tr("a", "0", "0", "r", "b")))
	assert.NoError(t, m.Add(tr("a", "*", "0", "r", "b")))
	assert.ErrorIs(t, m.Add(tr("a", "2", "0", "down", "b")), domain.ErrInvalidDirection)
	assert.ErrorIs(t, m.Add(tr("a", "2", "00", "r", "b")), domain.ErrInvalidSymbol)

	_, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, m.Add(tr("a", "3", "0", "r", "b")), domain.ErrTableSealed)
}

func TestMachine_HaltOutcomes(t *testing.T) {
	t.Run("No transitions at all", func(t *testing.T) {
		m := runtime.NewMachine("1")
		require.NoError(t, m.SetInitialState("a"))
		res, err := m.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "halt (no matching state for a)", res.State)
		assert.Equal(t, domain.NoState, res.Reason)
		assert.Equal(t, "1", res.Tape)
	})

	t.Run("Empty input with no blank transition", func(t *testing.T) {
		m := runtime.NewMachine("")
		require.NoError(t, m.Add(tr("a", "1", "0", "r", "halt-b")))
		res, err := m.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "halt (no matching transition for a(_))", res.State)
		assert.Equal(t, domain.NoTransition, res.Reason)
		assert.Equal(t, "", res.Tape)
	})

	t.Run("Next state without transitions", func(t *testing.T) {
		m := runtime.NewMachine("1")
		require.NoError(t, m.Add(tr("a", "1", "1", "r", "b")))
		res, err := m.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "halt (no matching state for b)", res.State)
	})
}

func TestMachine_WildcardPrecedence(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		tr("scan", "*", "x", "r", "scan"),
		tr("scan", "1", "1", "r", "scan"),
		tr("scan", "_", "*", "stay", "halt"),
	))
	table.Seal()

	m := runtime.NewMachine("a1b", runtime.WithTable(table))
	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x1x", res.Tape)
	assert.Equal(t, "halt", res.State)
	assert.Equal(t, 4, res.Steps)
}

func TestMachine_SharedTable(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		tr("a", "1", "0", "r", "a"),
		tr("a", "0", "1", "r", "a"),
		tr("a", "_", "*", "*", "halt-done"),
	))
	table.Seal()

	for input, want := range map[string]string{"101": "010", "": "", "1": "0"} {
		m := runtime.NewMachine(input, runtime.WithTable(table))
		res, err := m.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, res.Tape, input)
		assert.Equal(t, "halt-done", res.State)
	}
}

func TestMachine_SortedTape(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		tr("a", "1", "1", "l", "b"),
		tr("b", "_", "0", "*", "halt"),
	))

	insertion, err := runtime.NewMachine("1", runtime.WithTable(table.Clone())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10", insertion.Tape)

	sorted, err := runtime.NewMachine("1", runtime.WithTable(table.Clone()), runtime.WithSortedTape(true)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "01", sorted.Tape)
}

func TestMachine_StepLimit(t *testing.T) {
	m := runtime.NewMachine("", runtime.WithStepLimit(10))
	require.NoError(t, m.Add(tr("loop", "*", "*", "r", "loop")))

	res, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StepLimit, res.Reason)
	assert.Equal(t, "halt (step limit 10 exceeded)", res.State)
	assert.Equal(t, 10, res.Steps)
}

func TestMachine_Cancellation(t *testing.T) {
	m := runtime.NewMachine("")
	require.NoError(t, m.Add(tr("loop", "*", "*", "r", "loop")))

	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	hooks := domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			steps++
			if steps == 5000 {
				cancel()
			}
		},
	}

	m = runtime.NewMachine("", runtime.WithTable(m.Table()), runtime.WithLifecycleHooks(hooks))
	res, err := m.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, steps, 5000+1024+1)
	assert.Equal(t, domain.Interrupted, res.Reason)
	assert.Equal(t, "halt (interrupted: context canceled)", res.State)
	assert.Equal(t, 5120, res.Steps, "the context is checked every 1024 steps")
}

func TestMachine_ConcurrentRunsSealSharedTable(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(tr("a", "1", "0", "r", "a")))
	require.NoError(t, table.Add(tr("a", "_", "*", "*", "halt")))

	var wg sync.WaitGroup
	results := make([]domain.Result, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := runtime.NewMachine("111", runtime.WithTable(table)).Run(context.Background())
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	assert.True(t, table.Sealed())
	for _, res := range results {
		assert.Equal(t, "000", res.Tape)
	}
	assert.ErrorIs(t, table.Add(tr("b", "1", "1", "r", "b")), domain.ErrTableSealed)
}

func TestMachine_Hooks(t *testing.T) {
	var stepEvents []*domain.StepEvent
	var haltEvents []*domain.HaltEvent
	hooks := domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) { stepEvents = append(stepEvents, e) },
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) { haltEvents = append(haltEvents, e) },
	}

	m := runtime.NewMachine("11", runtime.WithLifecycleHooks(hooks), runtime.WithRunID("run-1"))
	require.NoError(t, m.Add(tr("a", "1", "0", "r", "a")))
	require.NoError(t, m.Add(tr("a", "_", "*", "*", "halt")))

	_, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, stepEvents, 3)
	assert.Equal(t, 1, stepEvents[1].Head)
	assert.Equal(t, "1", stepEvents[1].Symbol)
	assert.Equal(t, "run-1", stepEvents[0].RunID)
	require.Len(t, haltEvents, 1)
	assert.Equal(t, "halt", haltEvents[0].Result.State)
	assert.Equal(t, "run-1", m.RunID())
}
