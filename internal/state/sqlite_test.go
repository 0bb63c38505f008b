package state

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_PassLifecycle(t *testing.T) {
	store := newTestStore(t)
	id := uuid.NewString()

	pass, err := store.CreatePass(id, "es")
	require.NoError(t, err)
	assert.Equal(t, PassStatusRunning, pass.Status)
	assert.Equal(t, "es", pass.Language)

	require.NoError(t, store.SetPassOffset(id, 22))
	require.NoError(t, store.CompletePass(id, PassStatusCompleted, 120, ""))

	got, err := store.GetPass(id)
	require.NoError(t, err)
	assert.Equal(t, PassStatusCompleted, got.Status)
	assert.Equal(t, 22, got.YearsDifference)
	assert.Equal(t, int64(120), got.FlatRowCount)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.CompletedAt)
	assert.False(t, got.CompletedAt.Before(got.StartedAt))
}

func TestSQLiteStore_FailedPassKeepsError(t *testing.T) {
	store := newTestStore(t)
	id := uuid.NewString()

	_, err := store.CreatePass(id, "en")
	require.NoError(t, err)
	require.NoError(t, store.CompletePass(id, PassStatusFailed, 0, "empty fact sources"))

	got, err := store.GetPass(id)
	require.NoError(t, err)
	assert.Equal(t, PassStatusFailed, got.Status)
	assert.Equal(t, "empty fact sources", got.Error)
}

func TestSQLiteStore_ListPasses(t *testing.T) {
	store := newTestStore(t)

	for range 3 {
		_, err := store.CreatePass(uuid.NewString(), "es")
		require.NoError(t, err)
	}

	passes, err := store.ListPasses(2)
	require.NoError(t, err)
	assert.Len(t, passes, 2)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.CreatePass("x", "es")
	assert.Error(t, err)

	err = store.Migrate()
	assert.Error(t, err)
}
