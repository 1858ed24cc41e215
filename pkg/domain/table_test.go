package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(state, cell, write, move, next string) domain.Transition {
	return domain.Transition{CurrentState: state, CurrentCell: cell, NewCell: write, Direction: move, NewState: next}
}

func TestTable_Add(t *testing.T) {
	t.Run("Duplicate exact pair is rejected", func(t *testing.T) {
		table := domain.NewTable()
		require.NoError(t, table.Add(tr("a", "1", "0", "r", "b")))
		err := table.Add(tr("a", "1", "1", "l", "c"))
		assert.ErrorIs(t, err, domain.ErrDuplicateTransition)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("Different symbols and wildcard coexist", func(t *testing.T) {
		table := domain.NewTable()
		require.NoError(t, table.Add(tr("a", "1", "0", "r", "b")))
		require.NoError(t, table.Add(tr("a", "0", "1", "r", "b")))
		require.NoError(t, table.Add(tr("a", "*", "*", "*", "a")))
		assert.Equal(t, 3, table.Len())
	})

	t.Run("Second wildcard is rejected", func(t *testing.T) {
		table := domain.NewTable()
		require.NoError(t, table.Add(tr("a", "*", "*", "*", "a")))
		assert.ErrorIs(t, table.Add(tr("a", "*", "1", "r", "a")), domain.ErrDuplicateTransition)
	})

	t.Run("Validation", func(t *testing.T) {
		table := domain.NewTable()
		assert.ErrorIs(t, table.Add(tr("a", "1", "0", "up", "b")), domain.ErrInvalidDirection)
		assert.ErrorIs(t, table.Add(tr("a", "10", "0", "r", "b")), domain.ErrInvalidSymbol)
		assert.ErrorIs(t, table.Add(tr("a", "1", "", "r", "b")), domain.ErrInvalidSymbol)
		assert.NoError(t, table.Add(tr("a", "é", "ß", "right", "b")))
	})

	t.Run("Sealed table rejects changes", func(t *testing.T) {
		table := domain.NewTable()
		table.Seal()
		assert.ErrorIs(t, table.Add(tr("a", "1", "0", "r", "b")), domain.ErrTableSealed)
		assert.ErrorIs(t, table.SetInitialState("a"), domain.ErrTableSealed)
	})
}

func TestTable_InitialState(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(tr("q0", "1", "0", "r", "q1")))
	require.NoError(t, table.Add(tr("q1", "1", "0", "r", "q0")))
	assert.Equal(t, "q0", table.InitialState())

	require.NoError(t, table.SetInitialState("q1"))
	assert.Equal(t, "q1", table.InitialState())

	override := domain.NewTable()
	require.NoError(t, override.SetInitialState("q1"))
	require.NoError(t, override.Add(tr("q0", "1", "0", "r", "q1")))
	assert.Equal(t, "q1", override.InitialState())
}

func TestTable_Lookup(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(tr("a", "*", "x", "r", "a")))
	require.NoError(t, table.Add(tr("a", "1", "0", "r", "b")))

	got, ok := table.Lookup("a", "1")
	require.True(t, ok)
	assert.Equal(t, "0", got.NewCell, "exact match wins over wildcard")

	got, ok = table.Lookup("a", "7")
	require.True(t, ok)
	assert.Equal(t, "x", got.NewCell)

	_, ok = table.Lookup("b", "1")
	assert.False(t, ok)
	assert.False(t, table.HasState("b"))
}

func TestTable_Order(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		tr("b", "1", "1", "r", "a"),
		tr("a", "1", "1", "r", "b"),
		tr("b", "0", "0", "r", "a"),
	))
	assert.Equal(t, []string{"b", "a"}, table.States())

	var lines []string
	for _, x := range table.Transitions() {
		lines = append(lines, x.String())
	}
	assert.Equal(t, []string{"b 1 1 r a", "b 0 0 r a", "a 1 1 r b"}, lines)
}

func TestTable_JSON(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(tr("a", "1", "0", "r", "halt-b")))
	require.NoError(t, table.Add(tr("b", "*", "*", "stay", "halt-b")))
	require.NoError(t, table.SetInitialState("b"))

	data, err := json.Marshal(table)
	require.NoError(t, err)

	decoded := domain.NewTable()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, table.Transitions(), decoded.Transitions())
	assert.Equal(t, "b", decoded.InitialState())
	assert.False(t, decoded.Sealed())
}

func TestTable_Clone(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.Add(tr("a", "1", "0", "r", "b")))
	table.Seal()

	clone := table.Clone()
	require.NoError(t, clone.Add(tr("a", "0", "0", "r", "b")))
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 2, clone.Len())
}
