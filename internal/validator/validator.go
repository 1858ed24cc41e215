package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// ValidateTable checks for goto targets with no transitions and states the
// initial state can never reach. Halting targets are always valid.
func ValidateTable(table *domain.Table) error {
	start := table.InitialState()
	if start == "" {
		return fmt.Errorf("found 1 errors:\n- table has no initial state")
	}

	var errors []string
	if !table.HasState(start) && !domain.IsHalting(start) {
		errors = append(errors, fmt.Sprintf("Initial state '%s' has no transitions", start))
	}

	visited := make(map[string]bool)
	reported := make(map[string]bool)
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, t := range table.StateTransitions(current) {
			target := t.NewState
			if domain.IsHalting(target) {
				continue
			}
			if !table.HasState(target) {
				if !reported[target] {
					reported[target] = true
					errors = append(errors, fmt.Sprintf("Missing state '%s' (goto from %s(%s))", target, t.CurrentState, t.CurrentCell))
				}
				continue
			}
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	for _, state := range table.States() {
		if !visited[state] {
			errors = append(errors, fmt.Sprintf("Unreachable state '%s'", state))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
