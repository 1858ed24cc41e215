package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events editors emit for a single save.
const DefaultDebounce = 100 * time.Millisecond

// Source implements ports.ProgramSource and ports.Watchable for a program file.
type Source struct {
	Path     string
	Debounce time.Duration
}

// NewSource creates a source reading the program at path.
func NewSource(path string) *Source {
	return &Source{Path: path, Debounce: DefaultDebounce}
}

// Name returns the file path.
func (s *Source) Name() string {
	return s.Path
}

// Read returns the file contents.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return data, nil
}

// Watch reports the path every time the file is written or created.
// The parent directory is watched rather than the file, since many editors save by
// replacing the file, which would drop a watch on the file itself.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", s.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs || !evt.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				pending = time.After(s.Debounce)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-pending:
				pending = nil
				select {
				case ch <- s.Path:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
