package domain_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	oldTable := domain.NewTable()
	require.NoError(t, oldTable.AddAll(
		tr("a", "1", "0", "r", "b"),
		tr("a", "0", "0", "r", "b"),
	))

	newTable := domain.NewTable()
	require.NoError(t, newTable.AddAll(
		tr("a", "1", "1", "r", "b"),
		tr("b", "*", "*", "*", "halt-b"),
	))

	diff := domain.Diff(oldTable, newTable)
	assert.Equal(t, []domain.Transition{tr("b", "*", "*", "*", "halt-b")}, diff.Added)
	assert.Equal(t, []domain.Transition{tr("a", "0", "0", "r", "b")}, diff.Removed)
	assert.Equal(t, []domain.Transition{tr("a", "1", "1", "r", "b")}, diff.Changed)
	assert.Nil(t, diff.Initial)
	assert.False(t, diff.IsEmpty())

	assert.True(t, domain.Diff(newTable, newTable.Clone()).IsEmpty())

	initial := domain.Diff(nil, newTable)
	assert.Len(t, initial.Added, 2)
	require.NotNil(t, initial.Initial)
	assert.Equal(t, "a", *initial.Initial)
}
