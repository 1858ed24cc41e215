package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// Blank is the symbol held by cells that were never written or were erased.
	Blank = "_"

	// Wildcard matches any symbol when read, and leaves the cell unchanged when written.
	Wildcard = "*"

	// HaltPrefix marks a halting state. Reaching any state whose name starts with it stops the run.
	HaltPrefix = "halt"
)

// Direction is the normalized head movement of a transition.
type Direction int

const (
	Stay Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "l"
	case Right:
		return "r"
	default:
		return "*"
	}
}

// ParseDirection accepts the spellings left, l, right, r, stay and *.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "stay", Wildcard:
		return Stay, nil
	}
	return Stay, fmt.Errorf("%w: got %q", ErrInvalidDirection, s)
}

// Transition defines what the machine does when it reads CurrentCell in CurrentState.
// Fields keep the spelling they were written with so the canonical file reproduces it.
type Transition struct {
	CurrentState string `json:"current_state" yaml:"current_state"`

	// CurrentCell is a single symbol, or Wildcard for the state's default rule.
	CurrentCell string `json:"current_cell" yaml:"current_cell"`

	// NewCell is a single symbol. Wildcard leaves the cell as is, Blank erases it.
	NewCell string `json:"new_cell" yaml:"new_cell"`

	Direction string `json:"direction" yaml:"direction"`
	NewState  string `json:"new_state" yaml:"new_state"`
}

// Validate checks the direction spelling and that both symbols are one character long.
func (t Transition) Validate() error {
	if _, err := ParseDirection(t.Direction); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.CurrentCell) != 1 {
		return fmt.Errorf("%w: read symbol %q in state %s", ErrInvalidSymbol, t.CurrentCell, t.CurrentState)
	}
	if utf8.RuneCountInString(t.NewCell) != 1 {
		return fmt.Errorf("%w: write symbol %q in %s(%s)", ErrInvalidSymbol, t.NewCell, t.CurrentState, t.CurrentCell)
	}
	return nil
}

// Move returns the normalized direction. Invalid spellings read as Stay; call Validate first.
func (t Transition) Move() Direction {
	d, _ := ParseDirection(t.Direction)
	return d
}

// Fields returns the five canonical fields in file order.
func (t Transition) Fields() []string {
	return []string{t.CurrentState, t.CurrentCell, t.NewCell, t.Direction, t.NewState}
}

// String renders the transition as one canonical line without the trailing newline.
func (t Transition) String() string {
	return strings.Join(t.Fields(), " ")
}

// IsHalting reports whether reaching state ends the run.
func IsHalting(state string) bool {
	return strings.HasPrefix(state, HaltPrefix)
}

// HaltingState names the halting state reached by a "goto name!" directive.
func HaltingState(name string) string {
	return HaltPrefix + "-" + name
}
