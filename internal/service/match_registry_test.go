package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

func activeMatch(id int64, p1, p2 string) *models.Match {
	return &models.Match{
		ID:        id,
		Player1ID: p1,
		Player2ID: p2,
		Status:    models.MatchStatusPending,
	}
}

func TestMatchRegistry_PutGetDelete(t *testing.T) {
	registry := NewMatchRegistry()

	registry.Put(activeMatch(1, "a", "b"))

	match, exists := registry.Get(1)
	require.True(t, exists)
	assert.Equal(t, int64(1), match.ID)
	assert.Equal(t, 1, registry.Count())

	registry.Delete(1)
	_, exists = registry.Get(1)
	assert.False(t, exists)
	assert.Equal(t, 0, registry.Count())
}

func TestMatchRegistry_TerminalNotCached(t *testing.T) {
	registry := NewMatchRegistry()

	registry.Put(&models.Match{ID: 1, Status: models.MatchStatusCompleted})
	registry.Put(&models.Match{ID: 2, Status: models.MatchStatusCancelled})

	assert.Equal(t, 0, registry.Count())
}

func TestMatchRegistry_FindByPlayer(t *testing.T) {
	registry := NewMatchRegistry()
	registry.Put(activeMatch(1, "a", "b"))

	assert.NotNil(t, registry.FindByPlayer("a"))
	assert.NotNil(t, registry.FindByPlayer("b"))
	assert.Nil(t, registry.FindByPlayer("c"))
	assert.True(t, registry.HasPlayer("a"))
	assert.False(t, registry.HasPlayer("c"))
}

func TestMatchRegistry_GetReturnsCopy(t *testing.T) {
	registry := NewMatchRegistry()
	registry.Put(activeMatch(1, "a", "b"))

	match, _ := registry.Get(1)
	match.Player1ID = "mutated"

	cached, _ := registry.Get(1)
	assert.Equal(t, "a", cached.Player1ID)
}
