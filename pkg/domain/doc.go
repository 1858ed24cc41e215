/*
Package domain contains the core domain models of the Turing machine toolchain.

It defines the transition record shared by the compiler and the execution engine,
the transition table that indexes those records by state, and the values a run
produces. This package is kept pure and free of I/O, following the same
hexagonal split as the rest of the module: the compiler produces a Table, adapters
persist it, and the runtime consumes it.

# Key Entities

  - Transition: one (state, symbol) -> (symbol, move, state) rule.
  - Table: transitions grouped by state, in discovery order, with wildcard fallback.
  - Result: the final state label and rendered tape of one run.
  - LifecycleHooks: callbacks fired by the engine while it steps.
*/
package domain
