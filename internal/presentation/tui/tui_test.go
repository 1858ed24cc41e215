package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRenderer_Plain(t *testing.T) {
	var buf bytes.Buffer
	render := tui.NewResultRenderer(&buf, termenv.WithProfile(termenv.Ascii))

	got := render("1", domain.Result{Tape: "0", State: "halt-b", Reason: domain.HaltState})
	assert.Equal(t, "1 -> 0: halt-b", got)
}

func TestResultRenderer_Colored(t *testing.T) {
	var buf bytes.Buffer
	render := tui.NewResultRenderer(&buf, termenv.WithProfile(termenv.ANSI))

	ok := render("1", domain.Result{Tape: "0", State: "halt-b", Reason: domain.HaltState})
	limit := render("1", domain.Result{Tape: "0", State: "halt (step limit 5 exceeded)", Reason: domain.StepLimit})

	assert.Contains(t, ok, "\x1b[32mhalt-b")
	assert.Contains(t, limit, "\x1b[31;1mhalt (step limit 5 exceeded)")
}

func TestTableMarkdown(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		domain.Transition{CurrentState: "a", CurrentCell: "1", NewCell: "0", Direction: "right", NewState: "halt-b"},
		domain.Transition{CurrentState: "a", CurrentCell: "*", NewCell: "*", Direction: "stay", NewState: "a"},
	))

	md := tui.TableMarkdown("flip.btm", table)
	assert.Contains(t, md, `# flip.btm`)
	assert.Contains(t, md, "- **Initial state:** `a`")
	assert.Contains(t, md, "- **Transitions:** 2")
	assert.Contains(t, md, "| `1` | `0` | r | **halt-b** |")
	assert.Contains(t, md, "| `*` | `*` | * | a |")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0")
	assert.Contains(t, buf.String(), "v0.1.0")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer()
	require.NoError(t, err)

	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
