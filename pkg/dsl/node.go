package dsl

import "github.com/aretw0/turing/pkg/domain"

// StateBuilder provides a fluent API for the rules of one state.
type StateBuilder struct {
	name    string
	order   []string
	rules   map[string]*RuleBuilder
	builder *Builder
}

// On opens the rule for reading symbol. Opening the same symbol again returns the
// same rule, so directives given later update it instead of adding a duplicate.
func (s *StateBuilder) On(symbol string) *RuleBuilder {
	if rb, ok := s.rules[symbol]; ok {
		return rb
	}
	rb := &RuleBuilder{state: s, symbol: symbol}
	s.rules[symbol] = rb
	s.order = append(s.order, symbol)
	return rb
}

// Else opens the default rule, used when no other rule of the state matches.
func (s *StateBuilder) Else() *RuleBuilder {
	return s.On(domain.Wildcard)
}

// State opens another state block of the same builder.
func (s *StateBuilder) State(name string) *StateBuilder {
	return s.builder.State(name)
}

// RuleBuilder accumulates write, move and goto directives for one (state, symbol).
// Unset directives default to leaving the cell, staying put and remaining in the state.
type RuleBuilder struct {
	state  *StateBuilder
	symbol string
	write  *string
	move   *domain.Direction
	next   *string
}

// Write sets the symbol written under the head.
func (r *RuleBuilder) Write(symbol string) *RuleBuilder {
	r.write = &symbol
	return r
}

// Erase blanks the cell under the head.
func (r *RuleBuilder) Erase() *RuleBuilder {
	return r.Write(domain.Blank)
}

// Move sets the head movement.
func (r *RuleBuilder) Move(d domain.Direction) *RuleBuilder {
	r.move = &d
	return r
}

// Left moves the head one cell left.
func (r *RuleBuilder) Left() *RuleBuilder {
	return r.Move(domain.Left)
}

// Right moves the head one cell right.
func (r *RuleBuilder) Right() *RuleBuilder {
	return r.Move(domain.Right)
}

// Goto sets the next state.
func (r *RuleBuilder) Goto(state string) *RuleBuilder {
	r.next = &state
	return r
}

// Halt stops the machine in the halting state for name ("halt-<name>").
func (r *RuleBuilder) Halt(name string) *RuleBuilder {
	return r.Goto(domain.HaltingState(name))
}

// On opens a sibling rule of the same state.
func (r *RuleBuilder) On(symbol string) *RuleBuilder {
	return r.state.On(symbol)
}

// Else opens the default rule of the same state.
func (r *RuleBuilder) Else() *RuleBuilder {
	return r.state.Else()
}

// State opens another state block.
func (r *RuleBuilder) State(name string) *StateBuilder {
	return r.state.builder.State(name)
}

func (r *RuleBuilder) transition() domain.Transition {
	t := domain.Transition{
		CurrentState: r.state.name,
		CurrentCell:  r.symbol,
		NewCell:      domain.Wildcard,
		Direction:    domain.Stay.String(),
		NewState:     r.state.name,
	}
	if r.write != nil {
		t.NewCell = *r.write
	}
	if r.move != nil {
		t.Direction = r.move.String()
	}
	if r.next != nil {
		t.NewState = *r.next
	}
	return t
}
