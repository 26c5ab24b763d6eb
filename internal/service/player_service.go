package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
	"github.com/d-osc/game-rpg-world-sub001/internal/repository"
)

// PlayerService serves rating stats and ranked leaderboard views.
type PlayerService struct {
	playerRepo repository.PlayerRepositoryInterface
	minMatches int
	logger     *zap.Logger
}

func NewPlayerService(playerRepo repository.PlayerRepositoryInterface, minMatches int) *PlayerService {
	logger, _ := zap.NewProduction()
	// At least one match to qualify; a zero threshold would rank players
	// who have never played.
	if minMatches < 1 {
		minMatches = 1
	}
	return &PlayerService{
		playerRepo: playerRepo,
		minMatches: minMatches,
		logger:     logger,
	}
}

// GetStats returns the player's rating record.
func (s *PlayerService) GetStats(playerID string) (*models.PlayerRating, error) {
	player, err := s.playerRepo.FindByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// GetLeaderboard returns ranked entries among players meeting the minimum
// match threshold.
func (s *PlayerService) GetLeaderboard(limit, offset int) ([]*models.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.playerRepo.ListLeaderboard(limit, offset, s.minMatches)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}

// GetRank returns the player's leaderboard position, or 0 when the player
// has not played enough matches to be ranked.
func (s *PlayerService) GetRank(playerID string) (int, error) {
	rank, err := s.playerRepo.GetRank(playerID, s.minMatches)
	if err != nil {
		return 0, fmt.Errorf("failed to get player rank: %w", err)
	}
	return rank, nil
}

// Reset zeroes a player's rating record and clears their match history.
// Administrative operation; rating records are never deleted.
func (s *PlayerService) Reset(playerID string) error {
	ok, err := s.playerRepo.Reset(playerID)
	if err != nil {
		return fmt.Errorf("failed to reset player: %w", err)
	}
	if !ok {
		return ErrPlayerNotFound
	}

	s.logger.Info("Player rating reset", zap.String("playerId", playerID))
	return nil
}
