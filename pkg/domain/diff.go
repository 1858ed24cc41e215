package domain

// TableDiff lists how one table differs from another, keyed by (state, symbol).
type TableDiff struct {
	Added   []Transition `json:"added,omitempty"`
	Removed []Transition `json:"removed,omitempty"`
	Changed []Transition `json:"changed,omitempty"` // new values
	Initial *string      `json:"initial_state,omitempty"`
}

type cellKey struct {
	state, cell string
}

// Diff compares oldTable with newTable. A nil oldTable yields every transition as added.
func Diff(oldTable, newTable *Table) *TableDiff {
	if newTable == nil {
		return nil
	}
	diff := &TableDiff{}

	old := make(map[cellKey]Transition)
	if oldTable != nil {
		for _, tr := range oldTable.Transitions() {
			old[cellKey{tr.CurrentState, tr.CurrentCell}] = tr
		}
	}

	seen := make(map[cellKey]bool)
	for _, tr := range newTable.Transitions() {
		k := cellKey{tr.CurrentState, tr.CurrentCell}
		seen[k] = true
		prev, ok := old[k]
		switch {
		case !ok:
			diff.Added = append(diff.Added, tr)
		case prev != tr:
			diff.Changed = append(diff.Changed, tr)
		}
	}

	if oldTable != nil {
		for _, tr := range oldTable.Transitions() {
			if !seen[cellKey{tr.CurrentState, tr.CurrentCell}] {
				diff.Removed = append(diff.Removed, tr)
			}
		}
	}

	if oldTable == nil || oldTable.InitialState() != newTable.InitialState() {
		initial := newTable.InitialState()
		diff.Initial = &initial
	}

	return diff
}

// IsEmpty reports whether the two tables were equivalent.
func (d *TableDiff) IsEmpty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && d.Initial == nil)
}
