package domain

import "fmt"

// EmptyInputTokens are run arguments that stand for the empty tape.
var EmptyInputTokens = []string{"epsilon", `\epsilon`}

// NormalizeInput maps the reserved empty tokens to the empty string.
func NormalizeInput(arg string) string {
	for _, tok := range EmptyInputTokens {
		if arg == tok {
			return ""
		}
	}
	return arg
}

// HaltReason tells how a run ended.
type HaltReason string

const (
	HaltState    HaltReason = "halt_state"    // a state carrying HaltPrefix was reached
	NoTransition HaltReason = "no_transition" // nothing matched the symbol, not even a wildcard
	NoState      HaltReason = "no_state"      // the state has no transitions at all
	StepLimit    HaltReason = "step_limit"    // the configured step budget ran out
	Interrupted  HaltReason = "interrupted"   // the run's context was cancelled or timed out
)

// Result is the outcome of running one input through a table.
type Result struct {
	Input  string     `json:"input"`
	Tape   string     `json:"tape"`
	State  string     `json:"state"`
	Reason HaltReason `json:"reason"`
	Steps  int        `json:"steps"`
}

// String formats the result the way the CLI prints it.
func (r Result) String() string {
	return fmt.Sprintf("%s -> %s: %s", r.Input, r.Tape, r.State)
}

// NoTransitionLabel is the final state label when no rule matches state(symbol).
func NoTransitionLabel(state, symbol string) string {
	return fmt.Sprintf("halt (no matching transition for %s(%s))", state, symbol)
}

// NoStateLabel is the final state label when state has no transitions.
func NoStateLabel(state string) string {
	return fmt.Sprintf("halt (no matching state for %s)", state)
}

// StepLimitLabel is the final state label when the step budget is exhausted.
func StepLimitLabel(limit int) string {
	return fmt.Sprintf("halt (step limit %d exceeded)", limit)
}

// InterruptedLabel is the final state label when the run's context ends first.
func InterruptedLabel(err error) string {
	return fmt.Sprintf("halt (interrupted: %v)", err)
}
