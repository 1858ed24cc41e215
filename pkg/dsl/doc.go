/*
Package dsl provides a Go DSL for programmatically constructing transition tables.

It mirrors the program notation (state blocks, read blocks, write/move/goto
directives) with a fluent builder, so tables can be generated from Go code or
written in tests without a program file. Defaults match the compiler: a rule that
never writes leaves the cell, one that never moves stays, one without a goto
loops in its own state.

Example usage:

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/turing"
		"github.com/aretw0/turing/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.State("flip").
			On("0").Write("1").Right().
			On("1").Write("0").Right().
			On("_").Halt("done")

		table, err := b.Build()
		if err != nil {
			panic(err)
		}

		res, _ := turing.New().FromTable(table).Run(context.Background(), "10")
		fmt.Println(res) // 10 -> 01: halt-done
	}
*/
package dsl
