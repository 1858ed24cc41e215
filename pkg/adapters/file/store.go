package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/morphett"
)

// Ext is the extension of stored table files.
const Ext = ".tm"

// Store implements ports.TableStore using the local filesystem.
// Each table is one canonical transition file, <BasePath>/<name>.tm, that any
// simulator accepting the five-field format can load.
type Store struct {
	BasePath string
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".turing/tables".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".turing", "tables")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return filepath.Join(s.BasePath, name+Ext), nil
}

// Save writes the table atomically: to a temp file in the same directory, fsynced,
// then renamed over the destination.
func (s *Store) Save(ctx context.Context, name string, table *domain.Table) error {
	destPath, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure table directory: %w", err)
	}

	var buf bytes.Buffer
	if err := morphett.WriteHeader(&buf, table); err != nil {
		return err
	}
	if err := morphett.Encode(&buf, table); err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*"+Ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", destPath, err)
	}
	return nil
}

// Load reads and decodes the table file.
func (s *Store) Load(ctx context.Context, name string) (*domain.Table, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	table, err := morphett.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	return table, nil
}

// Delete removes the table file.
func (s *Store) Delete(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete table file: %w", err)
	}
	return nil
}

// List returns the names of all table files, skipping in-flight temp files.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != Ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, Ext))
	}
	return names, nil
}
