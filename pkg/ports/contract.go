package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractTable(t *testing.T) *domain.Table {
	t.Helper()
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		domain.Transition{CurrentState: "a", CurrentCell: "1", NewCell: "0", Direction: "r", NewState: "b"},
		domain.Transition{CurrentState: "a", CurrentCell: "*", NewCell: "*", Direction: "stay", NewState: "halt-a"},
		domain.Transition{CurrentState: "b", CurrentCell: "_", NewCell: "1", Direction: "l", NewState: "halt-done"},
	))
	return table
}

// RunTableStoreContract runs a suite of tests to verify that a TableStore implementation
// adheres to the defined interface contract.
func RunTableStoreContract(t *testing.T, store TableStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		table := contractTable(t)
		require.NoError(t, store.Save(ctx, name, table), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, table.InitialState(), loaded.InitialState())
		assert.Equal(t, table.Transitions(), loaded.Transitions())
		assert.False(t, loaded.Sealed(), "loaded tables belong to the caller")
	})

	t.Run("Save Replaces", func(t *testing.T) {
		table := domain.NewTable()
		require.NoError(t, table.Add(domain.Transition{CurrentState: "z", CurrentCell: "0", NewCell: "1", Direction: "r", NewState: "halt"}))
		require.NoError(t, store.Save(ctx, name, table))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "z", loaded.InitialState())
		assert.Equal(t, 1, loaded.Len())
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractTable(t)))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		require.NoError(t, loaded.Add(domain.Transition{CurrentState: "c", CurrentCell: "0", NewCell: "0", Direction: "r", NewState: "c"}))

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 3, again.Len())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrTableNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractTable(t)))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrTableNotFound, "Load after Delete should return ErrTableNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id1, contractTable(t)))
		require.NoError(t, store.Save(ctx, id2, contractTable(t)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})

	t.Run("Concurrent Saves", func(t *testing.T) {
		table := contractTable(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Save(ctx, name, table))
			}()
		}
		wg.Wait()

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.Len())
		_ = store.Delete(ctx, name)
	})
}
