package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Store implements ports.TableStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Table
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Table),
	}
}

// Save keeps an unsealed copy of the table.
func (s *Store) Save(ctx context.Context, name string, table *domain.Table) error {
	copied := table.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored table.
func (s *Store) Load(ctx context.Context, name string) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.data[name]
	if !ok {
		return nil, domain.ErrTableNotFound
	}
	return table.Clone(), nil
}

// Delete removes the table.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored table names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
