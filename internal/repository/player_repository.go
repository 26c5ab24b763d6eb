package repository

import (
	"database/sql"
	"fmt"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
	"github.com/d-osc/game-rpg-world-sub001/pkg/database"
)

// PlayerRepositoryInterface is the durable-storage contract for rating records.
type PlayerRepositoryInterface interface {
	Upsert(playerID, name string) (*models.PlayerRating, error)
	FindByID(playerID string) (*models.PlayerRating, error)
	ListLeaderboard(limit, offset, minMatches int) ([]*models.LeaderboardEntry, error)
	GetRank(playerID string, minMatches int) (int, error)
	Reset(playerID string) (bool, error)
}

type PlayerRepository struct {
	db *database.DB
}

func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert lazily creates the player's rating record with the default rating,
// or refreshes the display name if the record already exists.
func (r *PlayerRepository) Upsert(playerID, name string) (*models.PlayerRating, error) {
	query := `
		INSERT INTO players (id, name, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, name, rating, wins, losses, win_streak, best_streak,
		          last_match_at, created_at, updated_at
	`

	player := &models.PlayerRating{}
	err := r.db.QueryRow(query, playerID, name, models.DefaultRating).Scan(
		&player.ID,
		&player.Name,
		&player.Rating,
		&player.Wins,
		&player.Losses,
		&player.WinStreak,
		&player.BestStreak,
		&player.LastMatchAt,
		&player.CreatedAt,
		&player.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}

	return player, nil
}

// FindByID returns the player's rating record, or nil when unknown.
func (r *PlayerRepository) FindByID(playerID string) (*models.PlayerRating, error) {
	query := `
		SELECT id, name, rating, wins, losses, win_streak, best_streak,
		       last_match_at, created_at, updated_at
		FROM players
		WHERE id = $1
	`

	player := &models.PlayerRating{}
	err := r.db.QueryRow(query, playerID).Scan(
		&player.ID,
		&player.Name,
		&player.Rating,
		&player.Wins,
		&player.Losses,
		&player.WinStreak,
		&player.BestStreak,
		&player.LastMatchAt,
		&player.CreatedAt,
		&player.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find player: %w", err)
	}

	return player, nil
}

// ListLeaderboard returns ranked rows among players meeting the minimum
// match threshold, ordered by rating descending. Rank is assigned over the
// whole qualifying set so pages carry absolute positions.
func (r *PlayerRepository) ListLeaderboard(limit, offset, minMatches int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT rank, id, name, rating, wins, losses, win_rate
		FROM (
			SELECT ROW_NUMBER() OVER (ORDER BY rating DESC, id ASC) AS rank,
			       id, name, rating, wins, losses,
			       ROUND(COALESCE(wins * 100.0 / NULLIF(wins + losses, 0), 0), 2) AS win_rate
			FROM players
			WHERE wins + losses >= $1
		) ranked
		ORDER BY rank
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, minMatches, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		if err := rows.Scan(
			&entry.Rank,
			&entry.PlayerID,
			&entry.Name,
			&entry.Rating,
			&entry.Wins,
			&entry.Losses,
			&entry.WinRate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetRank returns the player's position among qualifying players,
// or 0 when the player is unranked.
func (r *PlayerRepository) GetRank(playerID string, minMatches int) (int, error) {
	query := `
		SELECT rank FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY rating DESC, id ASC) AS rank
			FROM players
			WHERE wins + losses >= $1
		) ranked
		WHERE id = $2
	`

	var rank int
	err := r.db.QueryRow(query, minMatches, playerID).Scan(&rank)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get player rank: %w", err)
	}

	return rank, nil
}

// Reset zeroes a player's rating record and clears their match history.
// Both writes commit together or not at all. Returns false when the
// player is unknown.
func (r *PlayerRepository) Reset(playerID string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE players
		SET rating = $1,
		    wins = 0,
		    losses = 0,
		    win_streak = 0,
		    best_streak = 0,
		    last_match_at = NULL,
		    updated_at = NOW()
		WHERE id = $2
	`, models.DefaultRating, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to reset player: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	_, err = tx.Exec(`
		DELETE FROM matches
		WHERE player1_id = $1 OR player2_id = $1
	`, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to clear match history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}
