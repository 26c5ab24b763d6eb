package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
	"github.com/d-osc/game-rpg-world-sub001/pkg/database"
)

// ErrMatchNotActive is returned when a terminal write finds the match
// missing or already terminal; the whole transaction rolls back.
var ErrMatchNotActive = errors.New("match is not active")

// MatchRepositoryInterface is the durable-storage contract for match records.
type MatchRepositoryInterface interface {
	Create(player1, player2 models.QueueEntry) (*models.Match, error)
	FindByID(matchID int64) (*models.Match, error)
	StartIfPending(matchID int64) (bool, error)
	CancelIfActive(matchID int64) (bool, error)
	ApplyOutcome(matchID int64, winnerID, loserID string, durationSeconds int, compute models.OutcomeFunc) (*models.RatingChange, error)
	FindCompletedByPlayer(playerID string, limit, offset int) ([]*models.Match, error)
}

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, player1_id, player1_name, player1_rating,
		       player2_id, player2_name, player2_rating,
		       status, winner_id, duration_seconds,
		       started_at, completed_at, created_at`

// Create persists a new pending match with both participant snapshots
// taken from the queue entries at pairing time.
func (r *MatchRepository) Create(player1, player2 models.QueueEntry) (*models.Match, error) {
	query := `
		INSERT INTO matches (player1_id, player1_name, player1_rating,
		                     player2_id, player2_name, player2_rating, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, created_at
	`

	match := &models.Match{
		Player1ID:     player1.PlayerID,
		Player1Name:   player1.PlayerName,
		Player1Rating: player1.Rating,
		Player2ID:     player2.PlayerID,
		Player2Name:   player2.PlayerName,
		Player2Rating: player2.Rating,
		Status:        models.MatchStatusPending,
	}
	err := r.db.QueryRow(query,
		player1.PlayerID, player1.PlayerName, player1.Rating,
		player2.PlayerID, player2.PlayerName, player2.Rating,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return match, nil
}

// FindByID returns the match, or nil when unknown.
func (r *MatchRepository) FindByID(matchID int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRow(query, matchID).Scan(
		&match.ID,
		&match.Player1ID,
		&match.Player1Name,
		&match.Player1Rating,
		&match.Player2ID,
		&match.Player2Name,
		&match.Player2Rating,
		&match.Status,
		&match.WinnerID,
		&match.DurationSeconds,
		&match.StartedAt,
		&match.CompletedAt,
		&match.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}

	return match, nil
}

// StartIfPending moves a pending match to in_progress. Returns false when
// the match is missing or not pending; the status check and the write are
// a single conditional UPDATE so concurrent starts cannot both succeed.
func (r *MatchRepository) StartIfPending(matchID int64) (bool, error) {
	query := `
		UPDATE matches
		SET status = 'in_progress', started_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(query, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to start match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// CancelIfActive marks a non-terminal match cancelled. Terminal matches are
// left untouched and false is returned.
func (r *MatchRepository) CancelIfActive(matchID int64) (bool, error) {
	query := `
		UPDATE matches
		SET status = 'cancelled', completed_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'in_progress')
	`

	result, err := r.db.Exec(query, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// ApplyOutcome completes a match as a single unit of work: both player rows
// are read under row locks, compute derives the new ratings from the locked
// state, and the two player updates plus the match's terminal write commit
// together or roll back together.
func (r *MatchRepository) ApplyOutcome(
	matchID int64,
	winnerID, loserID string,
	durationSeconds int,
	compute models.OutcomeFunc,
) (*models.RatingChange, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock both player rows in id order so concurrent completions touching
	// the same players cannot deadlock.
	first, second := winnerID, loserID
	if second < first {
		first, second = second, first
	}

	players := make(map[string]*models.PlayerRating, 2)
	for _, id := range []string{first, second} {
		player, err := lockPlayerRow(tx, id)
		if err != nil {
			return nil, err
		}
		players[id] = player
	}

	winner, loser := players[winnerID], players[loserID]
	change := compute(winner, loser)

	for _, player := range []*models.PlayerRating{winner, loser} {
		_, err = tx.Exec(`
			UPDATE players
			SET rating = $1,
			    wins = $2,
			    losses = $3,
			    win_streak = $4,
			    best_streak = $5,
			    last_match_at = $6,
			    updated_at = NOW()
			WHERE id = $7
		`, player.Rating, player.Wins, player.Losses,
			player.WinStreak, player.BestStreak, player.LastMatchAt, player.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update player rating: %w", err)
		}
	}

	// The status guard makes durable storage the arbiter of conflicting
	// completions: of two transactions racing on the same match, the
	// second sees a terminal row, affects nothing, and rolls back its
	// rating writes.
	result, err := tx.Exec(`
		UPDATE matches
		SET status = 'completed',
		    winner_id = $1,
		    duration_seconds = $2,
		    completed_at = NOW()
		WHERE id = $3 AND status IN ('pending', 'in_progress')
	`, winnerID, durationSeconds, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrMatchNotActive
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &change, nil
}

func lockPlayerRow(tx *sql.Tx, playerID string) (*models.PlayerRating, error) {
	player := &models.PlayerRating{}
	err := tx.QueryRow(`
		SELECT id, name, rating, wins, losses, win_streak, best_streak,
		       last_match_at, created_at, updated_at
		FROM players
		WHERE id = $1
		FOR UPDATE
	`, playerID).Scan(
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
		return nil, fmt.Errorf("failed to lock player row %s: %w", playerID, err)
	}
	return player, nil
}

// FindCompletedByPlayer lists the player's completed matches, newest first.
func (r *MatchRepository) FindCompletedByPlayer(playerID string, limit, offset int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE (player1_id = $1 OR player2_id = $1) AND status = 'completed'
		ORDER BY completed_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(query, playerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		err := rows.Scan(
			&match.ID,
			&match.Player1ID,
			&match.Player1Name,
			&match.Player1Rating,
			&match.Player2ID,
			&match.Player2Name,
			&match.Player2Rating,
			&match.Status,
			&match.WinnerID,
			&match.DurationSeconds,
			&match.StartedAt,
			&match.CompletedAt,
			&match.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, nil
}
