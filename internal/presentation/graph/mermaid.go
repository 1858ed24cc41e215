package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	FinalState    string
}

// GenerateMermaid produces a Mermaid flowchart of a transition table.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Halting state: (["Stadium"])
// - Referenced but undefined state: {{Hexagon}} (the machine halts with "no matching state")
// - Default: ["Rectangle"]
// Edges between the same two states are merged, one "read/write,move" label per line.
// It also applies overlay styles (Visited/Final) if provided.
func GenerateMermaid(table *domain.Table, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := newIDs()
	defined := make(map[string]bool)
	for _, s := range table.States() {
		defined[s] = true
	}

	declare := func(state string) {
		if _, ok := ids.known[state]; ok {
			return
		}
		id := ids.get(state)
		label := escape(state)

		opener, closer := "[\"", "\"]"
		switch {
		case state == table.InitialState():
			opener, closer = "((\"", "\"))"
		case domain.IsHalting(state):
			opener, closer = "([\"", "\"])"
		case !defined[state]:
			opener, closer = "{{\"", "\"}}"
		}
		fmt.Fprintf(&sb, "    %s%s%s%s\n", id, opener, label, closer)
	}

	if initial := table.InitialState(); initial != "" {
		declare(initial)
	}
	for _, s := range table.States() {
		declare(s)
		for _, t := range table.StateTransitions(s) {
			declare(t.NewState)
		}
	}

	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, t := range table.Transitions() {
		e := edge{t.CurrentState, t.NewState}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], fmt.Sprintf("%s/%s,%s", t.CurrentCell, t.NewCell, t.Move()))
	}
	for _, e := range order {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", ids.get(e.from), escape(strings.Join(labels[e], "<br/>")), ids.get(e.to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef final fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			id, ok := ids.known[s]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if id, ok := ids.known[overlay.FinalState]; ok {
			fmt.Fprintf(&sb, "    class %s final;\n", id)
		}
	}

	return sb.String()
}

// ids hands out s0, s1, ... so that any state name, whatever characters it uses,
// maps to a valid Mermaid identifier.
type ids struct {
	known map[string]string
}

func newIDs() *ids {
	return &ids{known: make(map[string]string)}
}

func (i *ids) get(state string) string {
	if id, ok := i.known[state]; ok {
		return id
	}
	id := fmt.Sprintf("s%d", len(i.known))
	i.known[state] = id
	return id
}

// escape replaces characters that would end a quoted Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
