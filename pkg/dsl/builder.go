package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Builder manages the table construction.
type Builder struct {
	initial string
	order   []string
	states  map[string]*StateBuilder
}

// New creates a new table builder.
func New() *Builder {
	return &Builder{
		states: make(map[string]*StateBuilder),
	}
}

// Start sets the initial state. By default it is the first state added.
func (b *Builder) Start(state string) *Builder {
	b.initial = state
	return b
}

// State opens a state block.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{
		name:    name,
		rules:   make(map[string]*RuleBuilder),
		builder: b,
	}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Build validates every rule and returns the transition table. The table is not
// sealed; hand it to turing.Engine.FromTable to run it.
func (b *Builder) Build() (*domain.Table, error) {
	table := domain.NewTable()
	for _, name := range b.order {
		sb := b.states[name]
		for _, symbol := range sb.order {
			if err := table.Add(sb.rules[symbol].transition()); err != nil {
				return nil, fmt.Errorf("failed to build table: %w", err)
			}
		}
	}
	if b.initial != "" {
		if err := table.SetInitialState(b.initial); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// MustBuild is like Build but panics on error. It suits tables fixed at compile time.
func (b *Builder) MustBuild() *domain.Table {
	table, err := b.Build()
	if err != nil {
		panic(err)
	}
	return table
}
