package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

type matchFixture struct {
	service    *MatchService
	registry   *MatchRegistry
	playerRepo *fakePlayerRepo
	matchRepo  *fakeMatchRepo
	notifier   *fakeNotifier
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	registry := NewMatchRegistry()
	playerRepo := newFakePlayerRepo()
	matchRepo := newFakeMatchRepo(playerRepo)
	notifier := newFakeNotifier()

	return &matchFixture{
		service:    NewMatchService(matchRepo, registry, NewELOService(0), notifier),
		registry:   registry,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		notifier:   notifier,
	}
}

func (f *matchFixture) createPendingMatch(t *testing.T, p1 string, r1 int, p2 string, r2 int) *models.Match {
	t.Helper()

	f.playerRepo.seed(p1, r1)
	f.playerRepo.seed(p2, r2)

	match, err := f.matchRepo.Create(
		models.QueueEntry{PlayerID: p1, PlayerName: p1, Rating: r1},
		models.QueueEntry{PlayerID: p2, PlayerName: p2, Rating: r2},
	)
	require.NoError(t, err)
	f.registry.Put(match)
	return match
}

func TestMatchService_StartTransition(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)

	require.NoError(t, f.service.Start(match.ID))

	stored, err := f.matchRepo.FindByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, stored.Status)
	assert.NotNil(t, stored.StartedAt)

	cached, exists := f.registry.Get(match.ID)
	require.True(t, exists)
	assert.Equal(t, models.MatchStatusInProgress, cached.Status)
}

func TestMatchService_StartRejectsNonPending(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)

	require.NoError(t, f.service.Start(match.ID))
	assert.ErrorIs(t, f.service.Start(match.ID), ErrMatchNotFoundOrStarted)
	assert.ErrorIs(t, f.service.Start(999), ErrMatchNotFoundOrStarted)
}

func TestMatchService_CompleteAppliesRatings(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)
	require.NoError(t, f.service.Start(match.ID))

	change, err := f.service.Complete(match.ID, "alice", "bob", 120)
	require.NoError(t, err)

	// Lower-rated winner gains more than the symmetric 16.
	assert.Equal(t, 18, change.WinnerDelta)
	assert.Equal(t, -18, change.LoserDelta)
	assert.Equal(t, 1518, change.WinnerRating)
	assert.Equal(t, 1532, change.LoserRating)

	winner, err := f.playerRepo.FindByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1518, winner.Rating)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, winner.WinStreak)
	assert.NotNil(t, winner.LastMatchAt)

	loser, err := f.playerRepo.FindByID("bob")
	require.NoError(t, err)
	assert.Equal(t, 1532, loser.Rating)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, 0, loser.WinStreak)

	stored, err := f.matchRepo.FindByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, stored.Status)
	require.NotNil(t, stored.WinnerID)
	assert.Equal(t, "alice", *stored.WinnerID)

	assert.True(t, f.notifier.received("alice", "match_completed"))
	assert.True(t, f.notifier.received("bob", "match_completed"))
}

func TestMatchService_CompleteTwiceFails(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)
	require.NoError(t, f.service.Start(match.ID))

	_, err := f.service.Complete(match.ID, "alice", "bob", 60)
	require.NoError(t, err)

	// Evicted from the registry on completion, so a replayed result is
	// rejected instead of double-counting ratings.
	_, err = f.service.Complete(match.ID, "alice", "bob", 60)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	winner, err := f.playerRepo.FindByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Wins)
}

func TestMatchService_CompleteConcurrentLoserRolledBack(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)
	require.NoError(t, f.service.Start(match.ID))

	// Both requests read the registry before either evicts; keep the copy
	// the slower one saw.
	snapshot, exists := f.registry.Get(match.ID)
	require.True(t, exists)

	_, err := f.service.Complete(match.ID, "alice", "bob", 60)
	require.NoError(t, err)

	// The slower request's registry check passes against its stale view,
	// but durable storage already holds a terminal row, so its whole
	// transaction is rejected.
	f.registry.Put(snapshot)
	_, err = f.service.Complete(match.ID, "bob", "alice", 60)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Equal(t, 0, f.registry.Count())

	winner, err := f.playerRepo.FindByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 0, winner.Losses)

	loser, err := f.playerRepo.FindByID("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, 0, loser.Wins)

	stored, err := f.matchRepo.FindByID(match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.WinnerID)
	assert.Equal(t, "alice", *stored.WinnerID)
}

func TestMatchService_CompleteValidatesParticipants(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)

	_, err := f.service.Complete(match.ID, "mallory", "bob", 60)
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	_, err = f.service.Complete(match.ID, "alice", "mallory", 60)
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	_, err = f.service.Complete(match.ID, "alice", "alice", 60)
	assert.ErrorIs(t, err, ErrInvalidParticipants)
}

func TestMatchService_Cancel(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)

	require.NoError(t, f.service.Cancel(match.ID))

	stored, err := f.matchRepo.FindByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCancelled, stored.Status)
	assert.Equal(t, 0, f.registry.Count())

	// Cancelled matches never touch ratings.
	player, err := f.playerRepo.FindByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1500, player.Rating)
	assert.Equal(t, 0, player.Wins)
	assert.Equal(t, 0, player.Losses)
}

func TestMatchService_CancelTerminalIsNoOp(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)
	require.NoError(t, f.service.Start(match.ID))

	_, err := f.service.Complete(match.ID, "alice", "bob", 60)
	require.NoError(t, err)

	assert.NoError(t, f.service.Cancel(match.ID))

	stored, err := f.matchRepo.FindByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, stored.Status)
}

func TestMatchService_CancelUnknownMatch(t *testing.T) {
	f := newMatchFixture(t)
	assert.ErrorIs(t, f.service.Cancel(404), ErrMatchNotFound)
}

func TestMatchService_GetActiveMatch(t *testing.T) {
	f := newMatchFixture(t)
	match := f.createPendingMatch(t, "alice", 1500, "bob", 1550)

	active := f.service.GetActiveMatch("alice")
	require.NotNil(t, active)
	assert.Equal(t, match.ID, active.ID)

	assert.Nil(t, f.service.GetActiveMatch("mallory"))
}
