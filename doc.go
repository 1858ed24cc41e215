/*
Package turing compiles programs written in a compact, indentation-based Turing
machine notation and runs them on input tapes.

A program is a list of state blocks. Each state block holds read blocks, and each
read block holds write, move and goto directives:

	a:
	  read 1:
	    write 0
	    move right
	    goto b!
	b:
	  else -> goto b!

The same program can be written with shorthand (`a(1) -> write 0 move r goto b!`),
with comments in parentheses, and with `#define` macros called as `{name args}`.
Compilation yields a transition table in the classic five-field form
(state, read, write, move, next state); `goto x!` jumps to the halting state
`halt-x`, and any state whose name starts with "halt" stops the machine.

# Usage

	eng := turing.New(turing.WithStepLimit(1_000_000))

	prog, err := eng.Compile(src)
	if err != nil {
		log.Fatal(err)
	}

	res, err := prog.Run(ctx, "1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res) // 1 -> 0: halt-b

Run never fails because a machine stopped: the final state label says why it
halted, e.g. "halt (no matching transition for a(_))". RunAll runs many inputs in
parallel on the same sealed table, and Runner prints the classic result lines.
*/
package turing
