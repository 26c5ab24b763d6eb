package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
	"github.com/d-osc/game-rpg-world-sub001/internal/repository"
)

// MatchCompletedPayload is pushed to both participants when a result is
// recorded.
type MatchCompletedPayload struct {
	MatchID     int64  `json:"matchId"`
	WinnerID    string `json:"winnerId"`
	WinnerDelta int    `json:"winnerDelta"`
	LoserDelta  int    `json:"loserDelta"`
}

// MatchService drives the match lifecycle state machine:
// pending -> in_progress -> completed | cancelled.
type MatchService struct {
	matchRepo  repository.MatchRepositoryInterface
	registry   *MatchRegistry
	eloService *ELOService
	notifier   Notifier
	logger     *zap.Logger
}

func NewMatchService(
	matchRepo repository.MatchRepositoryInterface,
	registry *MatchRegistry,
	eloService *ELOService,
	notifier Notifier,
) *MatchService {
	logger, _ := zap.NewProduction()
	return &MatchService{
		matchRepo:  matchRepo,
		registry:   registry,
		eloService: eloService,
		notifier:   notifier,
		logger:     logger,
	}
}

// Start moves a pending match to in_progress and refreshes the cache.
func (s *MatchService) Start(matchID int64) error {
	started, err := s.matchRepo.StartIfPending(matchID)
	if err != nil {
		return fmt.Errorf("failed to start match: %w", err)
	}
	if !started {
		return ErrMatchNotFoundOrStarted
	}

	match, err := s.matchRepo.FindByID(matchID)
	if err != nil {
		s.logger.Error("Failed to refresh match cache", zap.Int64("matchId", matchID), zap.Error(err))
	} else if match != nil {
		s.registry.Put(match)
	}

	s.logger.Info("Match started", zap.Int64("matchId", matchID))
	return nil
}

// Complete records a result for an active match. The match must still be
// in the registry (not yet terminal); winner and loser must be exactly the
// two participants. Rating updates and the match's terminal write are one
// transaction, after which the match is evicted from the registry. The
// terminal write is status-guarded, so of two completions racing past the
// registry check only one commits; the other rolls back and reports
// not-found.
func (s *MatchService) Complete(matchID int64, winnerID, loserID string, durationSeconds int) (*models.RatingChange, error) {
	match, exists := s.registry.Get(matchID)
	if !exists {
		return nil, ErrMatchNotFound
	}

	if !match.HasParticipant(winnerID) || match.Opponent(winnerID) != loserID {
		return nil, ErrInvalidParticipants
	}

	completedAt := time.Now().UTC()
	change, err := s.matchRepo.ApplyOutcome(matchID, winnerID, loserID, durationSeconds,
		func(winner, loser *models.PlayerRating) models.RatingChange {
			return s.eloService.ApplyOutcome(winner, loser, completedAt)
		})
	if errors.Is(err, repository.ErrMatchNotActive) {
		// A concurrent completion won the race; durable storage rejected
		// this one and rolled back its rating writes.
		s.registry.Delete(matchID)
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply match outcome: %w", err)
	}

	s.registry.Delete(matchID)

	if s.notifier != nil {
		payload := MatchCompletedPayload{
			MatchID:     matchID,
			WinnerID:    winnerID,
			WinnerDelta: change.WinnerDelta,
			LoserDelta:  change.LoserDelta,
		}
		s.notifier.SendToPlayer(match.Player1ID, "match_completed", payload)
		s.notifier.SendToPlayer(match.Player2ID, "match_completed", payload)
	}

	s.logger.Info("Match completed",
		zap.Int64("matchId", matchID),
		zap.String("winner", winnerID),
		zap.Int("winnerDelta", change.WinnerDelta),
		zap.Int("loserDelta", change.LoserDelta))

	return change, nil
}

// Cancel marks an active match cancelled and evicts it from the registry.
// Cancelling an already-terminal match is a no-op; cancelling an unknown
// match is an error.
func (s *MatchService) Cancel(matchID int64) error {
	cancelled, err := s.matchRepo.CancelIfActive(matchID)
	if err != nil {
		return fmt.Errorf("failed to cancel match: %w", err)
	}

	s.registry.Delete(matchID)

	if !cancelled {
		match, err := s.matchRepo.FindByID(matchID)
		if err != nil {
			return fmt.Errorf("failed to find match: %w", err)
		}
		if match == nil {
			return ErrMatchNotFound
		}
		s.logger.Warn("Cancel ignored for terminal match",
			zap.Int64("matchId", matchID),
			zap.String("status", string(match.Status)))
		return nil
	}

	s.logger.Info("Match cancelled", zap.Int64("matchId", matchID))
	return nil
}

// GetActiveMatch returns the player's current non-terminal match, or nil.
func (s *MatchService) GetActiveMatch(playerID string) *models.Match {
	return s.registry.FindByPlayer(playerID)
}

// GetHistory lists the player's completed matches, newest first.
func (s *MatchService) GetHistory(playerID string, limit, offset int) ([]*models.Match, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	matches, err := s.matchRepo.FindCompletedByPlayer(playerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get match history: %w", err)
	}

	return matches, nil
}
