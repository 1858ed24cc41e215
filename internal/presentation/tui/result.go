package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// NewResultRenderer formats result lines for w, coloring the final state by how
// the run ended. Plain text is produced when w is not a color terminal.
func NewResultRenderer(w io.Writer, opts ...termenv.OutputOption) func(arg string, res domain.Result) string {
	out := termenv.NewOutput(w, opts...)
	return func(arg string, res domain.Result) string {
		state := out.String(res.State)
		switch res.Reason {
		case domain.HaltState:
			state = state.Foreground(out.Color("2"))
		case domain.NoTransition, domain.NoState:
			state = state.Foreground(out.Color("3"))
		case domain.StepLimit, domain.Interrupted:
			state = state.Foreground(out.Color("1")).Bold()
		}
		return fmt.Sprintf("%s -> %s: %s", arg, out.String(res.Tape).Bold(), state)
	}
}
