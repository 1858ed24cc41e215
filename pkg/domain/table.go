package domain

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Table maps each state to its transitions, in the order they were added.
// The initial state is the state of the first transition added unless set explicitly.
//
// A Table is mutable until Seal is called. After that it is safe to share between
// concurrently running machines. Seal itself may be called from several goroutines.
type Table struct {
	initial string
	states  []string
	byState map[string][]Transition
	sealed  atomic.Bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		byState: make(map[string][]Transition),
	}
}

// Add validates the transition and appends it to its state.
// A (state, symbol) pair may only be covered once; the wildcard counts as its own symbol.
func (t *Table) Add(tr Transition) error {
	if t.sealed.Load() {
		return ErrTableSealed
	}
	if err := tr.Validate(); err != nil {
		return err
	}

	for _, existing := range t.byState[tr.CurrentState] {
		if existing.CurrentCell == tr.CurrentCell {
			return fmt.Errorf("%w: cannot add %s(%s) twice", ErrDuplicateTransition, tr.CurrentState, tr.CurrentCell)
		}
	}

	if len(t.states) == 0 && t.initial == "" {
		t.initial = tr.CurrentState
	}
	if _, ok := t.byState[tr.CurrentState]; !ok {
		t.states = append(t.states, tr.CurrentState)
	}
	t.byState[tr.CurrentState] = append(t.byState[tr.CurrentState], tr)
	return nil
}

// AddAll adds transitions in order, stopping at the first error.
func (t *Table) AddAll(trs ...Transition) error {
	for _, tr := range trs {
		if err := t.Add(tr); err != nil {
			return err
		}
	}
	return nil
}

// SetInitialState overrides the state a run begins in.
func (t *Table) SetInitialState(state string) error {
	if t.sealed.Load() {
		return ErrTableSealed
	}
	t.initial = state
	return nil
}

// InitialState returns the state a run begins in.
func (t *Table) InitialState() string {
	return t.initial
}

// Seal freezes the table. Further mutation returns ErrTableSealed.
func (t *Table) Seal() {
	t.sealed.Store(true)
}

// Sealed reports whether the table has been frozen.
func (t *Table) Sealed() bool {
	return t.sealed.Load()
}

// HasState reports whether any transition starts in state.
func (t *Table) HasState(state string) bool {
	_, ok := t.byState[state]
	return ok
}

// Lookup finds the transition for reading symbol in state.
// An exact match always wins over the state's wildcard transition.
func (t *Table) Lookup(state, symbol string) (Transition, bool) {
	var star *Transition
	for i, tr := range t.byState[state] {
		if tr.CurrentCell == symbol {
			return tr, true
		}
		if tr.CurrentCell == Wildcard && star == nil {
			star = &t.byState[state][i]
		}
	}
	if star != nil {
		return *star, true
	}
	return Transition{}, false
}

// States returns state names in first-seen order.
func (t *Table) States() []string {
	out := make([]string, len(t.states))
	copy(out, t.states)
	return out
}

// StateTransitions returns the transitions of one state in discovery order.
func (t *Table) StateTransitions(state string) []Transition {
	out := make([]Transition, len(t.byState[state]))
	copy(out, t.byState[state])
	return out
}

// Transitions flattens the table: states in first-seen order, each with its
// transitions in discovery order. This is the canonical file order.
func (t *Table) Transitions() []Transition {
	out := make([]Transition, 0, t.Len())
	for _, s := range t.states {
		out = append(out, t.byState[s]...)
	}
	return out
}

// Len returns the number of transitions.
func (t *Table) Len() int {
	n := 0
	for _, trs := range t.byState {
		n += len(trs)
	}
	return n
}

// Clone returns an unsealed deep copy.
func (t *Table) Clone() *Table {
	c := NewTable()
	c.initial = t.initial
	c.states = append(c.states, t.states...)
	for s, trs := range t.byState {
		c.byState[s] = append([]Transition(nil), trs...)
	}
	return c
}

type tableJSON struct {
	InitialState string       `json:"initial_state"`
	Transitions  []Transition `json:"transitions"`
}

// MarshalJSON encodes the table as its initial state plus flattened transitions.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		InitialState: t.initial,
		Transitions:  t.Transitions(),
	})
}

// UnmarshalJSON rebuilds the table through Add, so decoded tables obey the same rules.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if t.sealed.Load() {
		return ErrTableSealed
	}
	t.initial = ""
	t.states = nil
	t.byState = make(map[string][]Transition)
	if err := t.AddAll(raw.Transitions...); err != nil {
		return err
	}
	if raw.InitialState != "" {
		t.initial = raw.InitialState
	}
	return nil
}
