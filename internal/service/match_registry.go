package service

import (
	"sync"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

// MatchRegistry caches matches that have not yet reached a terminal state,
// keyed by match id. Durable storage stays the system of record; the
// registry is a projection and matches are evicted on completion or
// cancellation.
type MatchRegistry struct {
	mu      sync.RWMutex
	matches map[int64]models.Match
}

func NewMatchRegistry() *MatchRegistry {
	return &MatchRegistry{
		matches: make(map[int64]models.Match),
	}
}

// Put inserts or refreshes a non-terminal match. Terminal matches are
// never cached.
func (r *MatchRegistry) Put(match *models.Match) {
	if match.Status.Terminal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[match.ID] = *match
}

// Get returns a copy of the cached match.
func (r *MatchRegistry) Get(matchID int64) (*models.Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	match, exists := r.matches[matchID]
	if !exists {
		return nil, false
	}
	copied := match
	return &copied, true
}

// Delete evicts the match from the cache.
func (r *MatchRegistry) Delete(matchID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, matchID)
}

// FindByPlayer returns the player's active match, or nil.
func (r *MatchRegistry) FindByPlayer(playerID string) *models.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, match := range r.matches {
		if match.HasParticipant(playerID) {
			copied := match
			return &copied
		}
	}
	return nil
}

// HasPlayer reports whether the player is in any active match.
func (r *MatchRegistry) HasPlayer(playerID string) bool {
	return r.FindByPlayer(playerID) != nil
}

// Count returns the number of active matches.
func (r *MatchRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
