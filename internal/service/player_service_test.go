package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

func TestNewPlayerService_ClampsMinMatches(t *testing.T) {
	repo := newFakePlayerRepo()

	// A zero or negative threshold would rank players with no matches.
	assert.Equal(t, 1, NewPlayerService(repo, 0).minMatches)
	assert.Equal(t, 1, NewPlayerService(repo, -5).minMatches)
	assert.Equal(t, 10, NewPlayerService(repo, 10).minMatches)
}

func TestPlayerService_GetStats(t *testing.T) {
	repo := newFakePlayerRepo()
	repo.seed("alice", 1600)
	svc := NewPlayerService(repo, 10)

	player, err := svc.GetStats("alice")
	require.NoError(t, err)
	assert.Equal(t, 1600, player.Rating)

	_, err = svc.GetStats("nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerService_ResetUnknownPlayer(t *testing.T) {
	repo := newFakePlayerRepo()
	svc := NewPlayerService(repo, 10)

	assert.ErrorIs(t, svc.Reset("nobody"), ErrPlayerNotFound)
}

func TestPlayerService_ResetZeroesRecord(t *testing.T) {
	repo := newFakePlayerRepo()
	repo.seed("alice", 1600)
	repo.mu.Lock()
	repo.players["alice"].Wins = 7
	repo.players["alice"].WinStreak = 3
	repo.players["alice"].BestStreak = 5
	repo.mu.Unlock()

	svc := NewPlayerService(repo, 10)
	require.NoError(t, svc.Reset("alice"))

	player, err := svc.GetStats("alice")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRating, player.Rating)
	assert.Equal(t, 0, player.Wins)
	assert.Equal(t, 0, player.WinStreak)
	assert.Equal(t, 0, player.BestStreak)
	assert.Nil(t, player.LastMatchAt)
}
