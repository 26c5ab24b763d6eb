package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCancelled  MatchStatus = "cancelled"
)

// Terminal reports whether a match can no longer change state.
func (s MatchStatus) Terminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusCancelled
}

type Match struct {
	ID              int64       `json:"id" db:"id"`
	Player1ID       string      `json:"player1Id" db:"player1_id"`
	Player1Name     string      `json:"player1Name" db:"player1_name"`
	Player1Rating   int         `json:"player1Rating" db:"player1_rating"`
	Player2ID       string      `json:"player2Id" db:"player2_id"`
	Player2Name     string      `json:"player2Name" db:"player2_name"`
	Player2Rating   int         `json:"player2Rating" db:"player2_rating"`
	Status          MatchStatus `json:"status" db:"status"`
	WinnerID        *string     `json:"winnerId,omitempty" db:"winner_id"`
	DurationSeconds *int        `json:"durationSeconds,omitempty" db:"duration_seconds"`
	StartedAt       *time.Time  `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
}

// HasParticipant reports whether the player is one of the two participants.
func (m *Match) HasParticipant(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// Opponent returns the other participant's id, or "" if the player
// is not part of the match.
func (m *Match) Opponent(playerID string) string {
	switch playerID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return ""
}

// RatingChange carries the signed rating deltas applied by a completed match.
type RatingChange struct {
	WinnerRating int `json:"winnerRating"`
	LoserRating  int `json:"loserRating"`
	WinnerDelta  int `json:"winnerDelta"`
	LoserDelta   int `json:"loserDelta"`
}

// OutcomeFunc computes a match outcome inside the completion transaction.
// It receives the winner's and loser's rating rows as read under row locks
// and mutates them in place.
type OutcomeFunc func(winner, loser *PlayerRating) RatingChange
