package domain

import "errors"

// ErrInvalidDirection is returned when a transition moves in a direction other than
// left, right or stay.
var ErrInvalidDirection = errors.New("direction must be '[l]eft' '[r]ight' or 'stay'/'*'")

// ErrInvalidSymbol is returned when a read or write symbol is not exactly one character.
var ErrInvalidSymbol = errors.New("symbols can only be a single character")

// ErrDuplicateTransition is returned when a (state, symbol) pair is already covered.
var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrTableSealed is returned when adding to a table that is already shared with running machines.
var ErrTableSealed = errors.New("transition table is sealed")

// ErrTableNotFound is returned when a named table cannot be found in the store.
var ErrTableNotFound = errors.New("table not found")
