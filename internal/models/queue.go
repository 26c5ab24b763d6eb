package models

import "time"

// QueueEntry is a waiting player's record used for pairing. Rating is a
// snapshot taken at enqueue time and is also the rating written into the
// match participant snapshot when the entry is paired.
type QueueEntry struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Rating     int       `json:"rating"`
	QueuedAt   time.Time `json:"queuedAt"`
}

// QueueStatus is the aggregate view returned by get-queue-status.
type QueueStatus struct {
	QueueSize        int     `json:"queueSize"`
	AverageRating    float64 `json:"averageRating"`
	ActiveMatchCount int     `json:"activeMatchCount"`
}
