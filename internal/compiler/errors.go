package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned for malformed program text.
	ErrSyntax = errors.New("syntax error")

	// ErrUndefinedMacro is returned when a {NAME ...} call names no #define block.
	ErrUndefinedMacro = errors.New("undefined macro")
)

// Error attaches a source line to a compile failure.
// Lines are counted in the macro-expanded text.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorAt(line int, err error) error {
	return &Error{Line: line, Err: err}
}

func syntaxErrorf(line int, format string, args ...any) error {
	return errorAt(line, fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...)))
}
