package models

import (
	"math"
	"time"
)

// DefaultRating is assigned when a player's rating record is lazily created.
const DefaultRating = 1500

type PlayerRating struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Rating      int        `json:"rating" db:"rating"`
	Wins        int        `json:"wins" db:"wins"`
	Losses      int        `json:"losses" db:"losses"`
	WinStreak   int        `json:"winStreak" db:"win_streak"`
	BestStreak  int        `json:"bestStreak" db:"best_streak"`
	LastMatchAt *time.Time `json:"lastMatchAt,omitempty" db:"last_match_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// TotalMatches counts rated games; players below the leaderboard minimum are unranked.
func (p *PlayerRating) TotalMatches() int {
	return p.Wins + p.Losses
}

// WinRate returns the win percentage rounded to two decimal places,
// or 0 when no matches have been played.
func (p *PlayerRating) WinRate() float64 {
	total := p.Wins + p.Losses
	if total == 0 {
		return 0
	}
	return math.Round(float64(p.Wins)/float64(total)*100*100) / 100
}
