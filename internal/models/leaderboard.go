package models

// LeaderboardEntry is one ranked row of the leaderboard. Rank is computed
// among players meeting the minimum match threshold, ordered by rating
// descending.
type LeaderboardEntry struct {
	Rank     int     `json:"rank" db:"rank"`
	PlayerID string  `json:"playerId" db:"id"`
	Name     string  `json:"name" db:"name"`
	Rating   int     `json:"rating" db:"rating"`
	Wins     int     `json:"wins" db:"wins"`
	Losses   int     `json:"losses" db:"losses"`
	WinRate  float64 `json:"winRate" db:"win_rate"`
}
