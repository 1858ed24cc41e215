/*
Package ports defines the driven ports (interfaces) for the Turing engine.

These interfaces decouple compilation and execution from where programs and
compiled tables live, allowing the CLI and servers to work with various storage
backends and program sources.

# Key Interfaces

  - ProgramSource: Reads program text (e.g., from a file or memory).
  - Watchable: Notifies when a ProgramSource changes, for watch mode.
  - TableStore: Persists compiled transition tables by name.
  - DistributedLocker: Serializes read-modify-write updates of a stored table across replicas.
*/
package ports
