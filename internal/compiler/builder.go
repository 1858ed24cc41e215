package compiler

import (
	"github.com/aretw0/turing/pkg/domain"
)

// PartialTransition accumulates the directives found inside one read block.
// Unset fields are nil and receive defaults in Finalize.
type PartialTransition struct {
	State     string
	Cell      string
	NewCell   *string
	Direction *string
	NewState  *string

	line int
}

// Finalize fills the missing directives: the cell is left unchanged, the head
// stays, and the machine loops back to the same state.
func (p *PartialTransition) Finalize() domain.Transition {
	t := domain.Transition{
		CurrentState: p.State,
		CurrentCell:  p.Cell,
		NewCell:      domain.Wildcard,
		Direction:    domain.Wildcard,
		NewState:     p.State,
	}
	if p.NewCell != nil {
		t.NewCell = *p.NewCell
	}
	if p.Direction != nil {
		t.Direction = *p.Direction
	}
	if p.NewState != nil {
		t.NewState = *p.NewState
	}
	return t
}

// Builder merges directives into one record per (state, symbol).
// States and their symbols keep first-seen order; repeating a directive overwrites it.
type Builder struct {
	states  []string
	byState map[string][]*PartialTransition
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{byState: make(map[string][]*PartialTransition)}
}

func (b *Builder) entry(state, cell string, line int) *PartialTransition {
	for _, p := range b.byState[state] {
		if p.Cell == cell {
			return p
		}
	}
	if _, ok := b.byState[state]; !ok {
		b.states = append(b.states, state)
	}
	p := &PartialTransition{State: state, Cell: cell, line: line}
	b.byState[state] = append(b.byState[state], p)
	return p
}

// Write sets the symbol written when state reads cell.
func (b *Builder) Write(state, cell, symbol string, line int) {
	b.entry(state, cell, line).NewCell = &symbol
}

// Move sets the head movement when state reads cell.
func (b *Builder) Move(state, cell, direction string, line int) {
	b.entry(state, cell, line).Direction = &direction
}

// Goto sets the next state when state reads cell.
func (b *Builder) Goto(state, cell, next string, line int) {
	b.entry(state, cell, line).NewState = &next
}

// Transitions finalizes every record in table order.
func (b *Builder) Transitions() []domain.Transition {
	var out []domain.Transition
	for _, s := range b.states {
		for _, p := range b.byState[s] {
			out = append(out, p.Finalize())
		}
	}
	return out
}

// Table finalizes the records into a table. Validation failures point at the line
// that opened the offending record.
func (b *Builder) Table() (*domain.Table, error) {
	table := domain.NewTable()
	for _, s := range b.states {
		for _, p := range b.byState[s] {
			if err := table.Add(p.Finalize()); err != nil {
				return nil, errorAt(p.line, err)
			}
		}
	}
	return table, nil
}
