package store_test

import (
	"context"
	"errors"
	"testing"

	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises the behaviour every backend must share. newStore must
// return an empty store.
func runContract(t *testing.T, newStore func(t *testing.T) store.TaskStore) {
	t.Run("create echoes input with unique id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seen := map[string]bool{}
		for _, st := range domain.Statuses() {
			task, err := s.Create(ctx, "task "+string(st), st)
			require.NoError(t, err)
			assert.NotEmpty(t, task.ID)
			assert.Equal(t, "task "+string(st), task.Title)
			assert.Equal(t, st, task.Status)
			assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "task todo", list[0].Title)
		assert.Equal(t, "task done", list[2].Title)
	})

	t.Run("update status then list", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task, err := s.Create(ctx, "Write spec", domain.StatusTodo)
		require.NoError(t, err)

		for _, st := range domain.Statuses() {
			updated, err := s.UpdateStatus(ctx, task.ID, st)
			require.NoError(t, err)
			assert.Equal(t, task.ID, updated.ID)
			assert.Equal(t, "Write spec", updated.Title)
			assert.Equal(t, st, updated.Status)

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, st, list[0].Status)
		}
	})

	t.Run("update missing id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateStatus(context.Background(), missingID, domain.StatusDone)
		require.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("delete removes and is repeatable", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		keep, err := s.Create(ctx, "keep", domain.StatusTodo)
		require.NoError(t, err)
		gone, err := s.Create(ctx, "gone", domain.StatusDone)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, gone.ID))
		require.NoError(t, s.Delete(ctx, gone.ID))

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, keep.ID, list[0].ID)
	})

	t.Run("delete all", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := s.Create(ctx, "t", domain.StatusInProgress)
			require.NoError(t, err)
		}
		require.NoError(t, s.DeleteAll(ctx))

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

// missingID is a valid ObjectID hex so Mongo reports not-found rather than a bad id.
const missingID = "000000000000000000000000"

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	runContract(t, func(t *testing.T) store.TaskStore {
		return store.NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	runContract(t, func(t *testing.T) store.TaskStore {
		s, err := store.OpenSQLite(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
