package memory

import (
	"context"
	"sync"
)

// Source implements ports.ProgramSource over program text held in memory.
type Source struct {
	name string
	mu   sync.RWMutex
	src  []byte
}

// NewSource creates a source named name holding src.
func NewSource(name, src string) *Source {
	return &Source{name: name, src: []byte(src)}
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.name
}

// Read returns a copy of the program text.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.src...), nil
}

// Update replaces the program text.
func (s *Source) Update(src string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = []byte(src)
}
