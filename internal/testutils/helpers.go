package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing"
	"github.com/stretchr/testify/require"
)

// FlipSource inverts a binary string and halts in halt-done on the first blank.
const FlipSource = "flip:\n    read 0: write 1 move r\n    read 1: write 0 move r\n    read _: goto done!\n"

// FlipCanonical is FlipSource in the canonical five-field form.
const FlipCanonical = "flip 0 1 r flip\nflip 1 0 r flip\nflip _ * * halt-done\n"

// MustCompile compiles src with a default engine.
// It fails the test immediately on error.
func MustCompile(t testing.TB, src string) *turing.Program {
	t.Helper()

	p, err := turing.New().Compile(src)
	require.NoError(t, err, "Failed to compile test program")
	return p
}

// WriteProgram writes src to name inside dir and returns the absolute path.
func WriteProgram(t testing.TB, dir, name, src string) string {
	t.Helper()

	path, err := filepath.Abs(filepath.Join(dir, name))
	require.NoError(t, err, "Failed to get absolute path for program")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644), "Failed to write program")
	return path
}
