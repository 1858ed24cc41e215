package ports

import "context"

// ProgramSource defines where program text is read from.
type ProgramSource interface {
	// Name identifies the source in logs and errors (e.g., the file path).
	Name() string

	// Read returns the current program text.
	Read(ctx context.Context) ([]byte, error)
}

// Watchable defines an interface for sources that can notify about changes.
// This is used by the CLI watch mode to recompile and rerun.
type Watchable interface {
	// Watch returns a channel that receives the changed path whenever the source changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
