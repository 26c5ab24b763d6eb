package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

func TestQueueStore_AddDuplicate(t *testing.T) {
	store := NewQueueStore()

	entry := models.QueueEntry{PlayerID: "p1", PlayerName: "Alice", Rating: 1500, QueuedAt: time.Now()}
	require.NoError(t, store.Add(entry))

	err := store.Add(entry)
	assert.ErrorIs(t, err, ErrAlreadyQueued)
	assert.Equal(t, 1, store.Len())
}

func TestQueueStore_RemoveMissing(t *testing.T) {
	store := NewQueueStore()

	assert.False(t, store.Remove("nobody"))

	require.NoError(t, store.Add(models.QueueEntry{PlayerID: "p1", Rating: 1500}))
	assert.True(t, store.Remove("p1"))
	assert.False(t, store.Remove("p1"))
	assert.Equal(t, 0, store.Len())
}

func TestQueueStore_RemoveExpired(t *testing.T) {
	store := NewQueueStore()
	now := time.Now().UTC()

	require.NoError(t, store.Add(models.QueueEntry{PlayerID: "old", Rating: 1500, QueuedAt: now.Add(-6 * time.Minute)}))
	require.NoError(t, store.Add(models.QueueEntry{PlayerID: "fresh", Rating: 1500, QueuedAt: now.Add(-time.Minute)}))

	expired := store.RemoveExpired(5*time.Minute, now)

	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].PlayerID)
	assert.False(t, store.Contains("old"))
	assert.True(t, store.Contains("fresh"))
}

func TestQueueStore_SnapshotIsCopy(t *testing.T) {
	store := NewQueueStore()
	require.NoError(t, store.Add(models.QueueEntry{PlayerID: "p1", Rating: 1500}))

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 1)

	snapshot[0].PlayerID = "mutated"
	assert.True(t, store.Contains("p1"))
	assert.False(t, store.Contains("mutated"))
}
