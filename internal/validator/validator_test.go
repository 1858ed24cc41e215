package validator

import (
	"testing"

	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table := testutils.MustCompile(t, testutils.FlipSource).Table()
		assert.NoError(t, ValidateTable(table))
	})

	t.Run("missing target", func(t *testing.T) {
		table := testutils.MustCompile(t, "a:\n    read 0: goto ghost\n    read 1: goto ghost\n").Table()

		err := ValidateTable(table)
		require.Error(t, err)
		assert.Equal(t, "found 1 errors:\n- Missing state 'ghost' (goto from a(0))", err.Error())
	})

	t.Run("unreachable", func(t *testing.T) {
		table := testutils.MustCompile(t, "a -> goto done!\nb -> goto a\n").Table()

		err := ValidateTable(table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unreachable state 'b'")
	})

	t.Run("initial state without transitions", func(t *testing.T) {
		table := domain.NewTable()
		require.NoError(t, table.Add(domain.Transition{CurrentState: "a", CurrentCell: "0", NewCell: "*", Direction: "r", NewState: "a"}))
		require.NoError(t, table.SetInitialState("b"))

		err := ValidateTable(table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Initial state 'b' has no transitions")
		assert.Contains(t, err.Error(), "Unreachable state 'a'")
	})

	t.Run("empty table", func(t *testing.T) {
		assert.Error(t, ValidateTable(domain.NewTable()))
	})
}
