package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// TableStore defines the interface for persisting compiled transition tables.
// This lets a server compile once and run stored tables by name.
type TableStore interface {
	// Save persists the table under name, replacing any previous table.
	Save(ctx context.Context, name string, table *domain.Table) error

	// Load retrieves the table stored under name. The returned table is unsealed and
	// owned by the caller.
	// Returns domain.ErrTableNotFound if no such table exists.
	Load(ctx context.Context, name string) (*domain.Table, error)

	// Delete removes the table stored under name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored tables.
	List(ctx context.Context) ([]string, error)
}
