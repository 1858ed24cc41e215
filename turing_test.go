package turing_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flipProgram = `
(inverts every bit, then halts on the first blank)
flip:
    read 0: write 1 move r
    read 1: write 0 move r
    read _: goto done!
`

func mustCompile(t *testing.T, eng *turing.Engine, src string) *turing.Program {
	t.Helper()
	p, err := eng.Compile(src)
	require.NoError(t, err)
	return p
}

func TestProgram_Run(t *testing.T) {
	p := mustCompile(t, turing.New(), flipProgram)

	tests := []struct {
		input string
		tape  string
		state string
	}{
		{"1011", "0100", "halt-done"},
		{"", "", "halt-done"},
		{"12", "02", "halt (no matching transition for flip(2))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := p.Run(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.tape, res.Tape)
			assert.Equal(t, tt.state, res.State)
			assert.Equal(t, tt.input, res.Input)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := turing.New().Compile("a:\n    read 1:\n        move up\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	var cerr *compiler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 3, cerr.Line)
}

func TestProgram_RunAll(t *testing.T) {
	p := mustCompile(t, turing.New(turing.WithParallelism(3)), flipProgram)

	inputs := []string{"0", "1", "00", "11", "0101", "", "2", "111000"}
	results, err := p.RunAll(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))

	for i, input := range inputs {
		want, err := p.Run(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, want.Tape, results[i].Tape, "input %q", input)
		assert.Equal(t, input, results[i].Input, "results keep input order")
	}
}

func TestProgram_RunAll_Cancelled(t *testing.T) {
	p := mustCompile(t, turing.New(), "loop -> move r\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := p.RunAll(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for i, res := range results {
		assert.Equal(t, domain.Interrupted, res.Reason)
		assert.Equal(t, "halt (interrupted: context canceled)", res.State)
		assert.Equal(t, []string{"a", "b"}[i], res.Tape)
	}
}

const spinProgram = "a:\n    read 1: goto ok!\n    read 0: goto a\n"

func TestRunner_LoopingInputKeepsOthers(t *testing.T) {
	p := mustCompile(t, turing.New(turing.WithParallelism(1)), spinProgram)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	results, err := turing.NewRunner(&out).Run(ctx, p, []string{"1", "0"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, results, 2)
	assert.Equal(t, domain.HaltState, results[0].Reason)
	assert.Equal(t, domain.Interrupted, results[1].Reason)
	assert.Equal(t, "1 -> 1: halt-ok\n0 -> 0: halt (interrupted: context deadline exceeded)\n", out.String())
}

// lineWriter reports every line written to it.
type lineWriter func(line string)

func (w lineWriter) Write(b []byte) (int, error) {
	w(string(b))
	return len(b), nil
}

func TestRunner_PrintsLinesAsTheyFinish(t *testing.T) {
	p := mustCompile(t, turing.New(), spinProgram)

	// Nothing ends the looping input except the first line being printed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lines []string
	w := lineWriter(func(line string) {
		lines = append(lines, line)
		cancel()
	})
	_, err := turing.NewRunner(w).Run(ctx, p, []string{"1", "0"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{
		"1 -> 1: halt-ok\n",
		"0 -> 0: halt (interrupted: context canceled)\n",
	}, lines)
}

func TestEngine_StepLimit(t *testing.T) {
	p := mustCompile(t, turing.New(turing.WithStepLimit(100)), "loop -> move r\n")

	res, err := p.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.StepLimit, res.Reason)
	assert.Equal(t, "halt (step limit 100 exceeded)", res.State)
}

func TestEngine_InitialState(t *testing.T) {
	src := "a -> write a goto halt\nb -> write b goto halt\n"

	res, err := mustCompile(t, turing.New(), src).Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "a", res.Tape)

	res, err = mustCompile(t, turing.New(turing.WithInitialState("b")), src).Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "b", res.Tape)
}

func TestEngine_SortedTape(t *testing.T) {
	src := "a -> move l goto b\nb -> write 0 goto halt\n"

	res, err := mustCompile(t, turing.New(), src).Run(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "10", res.Tape, "cells print in write order")

	res, err = mustCompile(t, turing.New(turing.WithSortedTape(true)), src).Run(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "01", res.Tape)
}

func TestEngine_Hooks(t *testing.T) {
	var steps, halts atomic.Int64
	eng := turing.New(
		turing.WithLifecycleHooks(domain.LifecycleHooks{
			OnStep: func(ctx context.Context, e *domain.StepEvent) { steps.Add(1) },
		}),
		turing.WithLifecycleHooks(domain.LifecycleHooks{
			OnHalt: func(ctx context.Context, e *domain.HaltEvent) { halts.Add(1) },
		}),
	)
	p := mustCompile(t, eng, flipProgram)

	_, err := p.RunAll(context.Background(), []string{"01", "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), steps.Load(), "3 steps for 01 and 2 for 1")
	assert.Equal(t, int64(2), halts.Load())
}

func TestEngine_FromTable(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(domain.Transition{CurrentState: "a", CurrentCell: "*", NewCell: "x", Direction: "*", NewState: "halt"}))

	p := turing.New().FromTable(table)
	assert.False(t, table.Sealed(), "the caller's table is left untouched")
	assert.True(t, p.Table().Sealed())

	res, err := p.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "x", res.Tape)
}

func TestEngine_CompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flip.btm")
	require.NoError(t, os.WriteFile(path, []byte(flipProgram), 0644))

	p, err := turing.New().CompileFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flip.btm", p.Name)

	require.NoError(t, os.WriteFile(path, []byte("a:\n    read 1: write 10\n"), 0644))
	_, err = turing.New().CompileFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flip.btm")
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)

	_, err = turing.New().CompileFile(filepath.Join(t.TempDir(), "missing.btm"))
	assert.Error(t, err)
}

func TestEngine_CompileSource(t *testing.T) {
	src := memory.NewSource("inline", flipProgram)
	p, err := turing.New().CompileSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "inline", p.Name)
	assert.Equal(t, 3, p.Table().Len())
}

func TestProgram_WriteCanonical(t *testing.T) {
	p := mustCompile(t, turing.New(), flipProgram)

	var buf bytes.Buffer
	require.NoError(t, p.WriteCanonical(&buf))
	assert.Equal(t, "flip 0 1 r flip\nflip 1 0 r flip\nflip _ * * halt-done\n", buf.String())
}

func TestRunner(t *testing.T) {
	p := mustCompile(t, turing.New(), flipProgram)

	var out bytes.Buffer
	results, err := turing.NewRunner(&out).Run(context.Background(), p, []string{"10", "epsilon", `\epsilon`, "2"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	want := "10 -> 01: halt-done\n" +
		"epsilon -> : halt-done\n" +
		`\epsilon -> : halt-done` + "\n" +
		"2 -> 2: halt (no matching transition for flip(2))\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, "", results[1].Input)
}

func TestRunner_CustomRenderer(t *testing.T) {
	p := mustCompile(t, turing.New(), flipProgram)

	var out bytes.Buffer
	r := turing.NewRunner(&out)
	r.Renderer = func(arg string, res domain.Result) string {
		return arg + "=" + string(res.Reason)
	}
	_, err := r.Run(context.Background(), p, []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "1=halt_state\n", out.String())

	_, err = (&turing.Runner{}).Run(context.Background(), p, nil)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, turing.Version)
}
