package compiler

import (
	"github.com/aretw0/turing/pkg/domain"
)

// Option configures a compilation.
type Option func(*config)

type config struct {
	initialState string
}

// WithInitialState overrides the state a run starts in. By default it is the state
// of the first transition in the program.
func WithInitialState(state string) Option {
	return func(c *config) {
		c.initialState = state
	}
}

// Compile turns program text into a sealed transition table.
// Any error aborts the whole compilation; no partial table is returned.
func Compile(src string, opts ...Option) (*domain.Table, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	builder, err := Build(src)
	if err != nil {
		return nil, err
	}

	table, err := builder.Table()
	if err != nil {
		return nil, err
	}
	if cfg.initialState != "" {
		if err := table.SetInitialState(cfg.initialState); err != nil {
			return nil, err
		}
	}
	table.Seal()
	return table, nil
}

// Build runs every stage up to the builder, without validating the records.
func Build(src string) (*Builder, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	builder := NewBuilder()
	if err := Parse(tokens, builder); err != nil {
		return nil, err
	}
	return builder, nil
}

// Lex strips comments, expands macros, tokenizes and normalizes src.
func Lex(src string) ([]Token, error) {
	text, macros, err := ExtractMacros(StripComments(src))
	if err != nil {
		return nil, err
	}
	text, err = macros.Expand(text)
	if err != nil {
		return nil, err
	}
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return Normalize(tokens), nil
}
