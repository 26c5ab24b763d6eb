package service

import (
	"sync"
	"time"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

// QueueStore is the in-memory registry of players currently waiting for a
// match, keyed by player id. At most one entry per player. All access is
// mutex guarded; request handlers and the scheduler share it.
type QueueStore struct {
	mu      sync.Mutex
	entries map[string]models.QueueEntry
}

func NewQueueStore() *QueueStore {
	return &QueueStore{
		entries: make(map[string]models.QueueEntry),
	}
}

// Add inserts a waiting entry. Returns ErrAlreadyQueued if the player
// already has one.
func (q *QueueStore) Add(entry models.QueueEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.entries[entry.PlayerID]; exists {
		return ErrAlreadyQueued
	}

	q.entries[entry.PlayerID] = entry
	return nil
}

// Remove deletes the player's entry, reporting whether one existed.
func (q *QueueStore) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.entries[playerID]; !exists {
		return false
	}

	delete(q.entries, playerID)
	return true
}

// Contains reports whether the player is currently waiting.
func (q *QueueStore) Contains(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, exists := q.entries[playerID]
	return exists
}

// Snapshot returns a copy of all waiting entries. Order is unspecified;
// the scheduler sorts by rating before pairing.
func (q *QueueStore) Snapshot() []models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := make([]models.QueueEntry, 0, len(q.entries))
	for _, entry := range q.entries {
		entries = append(entries, entry)
	}
	return entries
}

// Len returns the number of waiting players.
func (q *QueueStore) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// RemoveExpired evicts entries queued before now minus maxAge and returns
// the evicted entries.
func (q *QueueStore) RemoveExpired(maxAge time.Duration, now time.Time) []models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	var expired []models.QueueEntry
	cutoff := now.Add(-maxAge)
	for id, entry := range q.entries {
		if entry.QueuedAt.Before(cutoff) {
			expired = append(expired, entry)
			delete(q.entries, id)
		}
	}
	return expired
}
