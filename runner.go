package turing

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/turing/pkg/domain"
)

// Runner prints one line per input, `<input> -> <tape>: <final state>`, in the
// order the inputs were given.
type Runner struct {
	Output   io.Writer
	Renderer ResultRenderer
}

// ResultRenderer formats one result line without the trailing newline.
// arg is the input as the user typed it, before empty tokens were mapped.
// This allows for colored terminal output without coupling the core package.
type ResultRenderer func(arg string, res domain.Result) string

// PlainRenderer prints the argument, final tape and final state label.
func PlainRenderer(arg string, res domain.Result) string {
	return fmt.Sprintf("%s -> %s: %s", arg, res.Tape, res.State)
}

// NewRunner creates a Runner writing plain lines to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{Output: w, Renderer: PlainRenderer}
}

// Run executes p on every argument and prints each line as soon as it and the lines
// before it are known. The reserved empty tokens ("epsilon", `\epsilon`) run on an
// empty tape but are printed as typed. When ctx ends first, the inputs still
// running print with an interrupted label and ctx's error is returned.
func (r *Runner) Run(ctx context.Context, p *Program, args []string) ([]domain.Result, error) {
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	render := r.Renderer
	if render == nil {
		render = PlainRenderer
	}

	inputs := make([]string, len(args))
	for i, arg := range args {
		inputs[i] = domain.NormalizeInput(arg)
	}

	results := make([]domain.Result, 0, len(args))
	err := p.RunEach(ctx, inputs, func(i int, res domain.Result) error {
		results = append(results, res)
		_, err := fmt.Fprintln(r.Output, render(args[i], res))
		return err
	})
	return results, err
}
