// Package morphett reads and writes the canonical five-field transition format:
// one transition per line, fields separated by a single space, in the order
//
//	<current state> <read symbol> <write symbol> <direction> <next state>
//
// The format is accepted by common online Turing machine simulators. Blank lines
// and lines starting with ';' are ignored on input, except for an
// "; initial: <state>" header that overrides the initial state.
package morphett

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// ErrMalformedLine is returned when a line does not hold exactly five fields.
var ErrMalformedLine = errors.New("malformed transition line")

const (
	commentPrefix = ";"
	initialHeader = "; initial:"
)

// Encode writes every transition of table as one canonical line, state by state
// in the order states were first defined.
func Encode(w io.Writer, table *domain.Table) error {
	bw := bufio.NewWriter(w)
	for _, t := range table.Transitions() {
		if _, err := bw.WriteString(t.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteHeader writes a comment naming the table's initial state, for files that
// must keep an initial state other than the first transition's.
func WriteHeader(w io.Writer, table *domain.Table) error {
	_, err := fmt.Fprintf(w, "%s %s\n", initialHeader, table.InitialState())
	return err
}

// Decode reads canonical lines into a new, unsealed table.
// The first transition's state becomes the initial state unless a header names another.
func Decode(r io.Reader) (*domain.Table, error) {
	table := domain.NewTable()
	initial := ""
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if after, ok := strings.CutPrefix(text, initialHeader); ok {
			initial = strings.TrimSpace(after)
			continue
		}
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}

		t, err := ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := table.Add(t); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transitions: %w", err)
	}
	if initial != "" {
		if err := table.SetInitialState(initial); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// ParseLine splits one canonical line into a transition. It does not validate it.
func ParseLine(text string) (domain.Transition, error) {
	f := strings.Fields(text)
	if len(f) != 5 {
		return domain.Transition{}, fmt.Errorf("%w: want 5 fields, got %d", ErrMalformedLine, len(f))
	}
	return domain.Transition{
		CurrentState: f[0],
		CurrentCell:  f[1],
		NewCell:      f[2],
		Direction:    f[3],
		NewState:     f[4],
	}, nil
}
