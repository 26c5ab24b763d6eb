package service

import "errors"

// Queue errors (validation, detected before any mutation)
var (
	ErrAlreadyQueued       = errors.New("player already in queue")
	ErrPlayerInActiveMatch = errors.New("player already in an active match")
)

// Match lifecycle errors
var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNotFoundOrStarted = errors.New("match not found or already started")
	ErrInvalidParticipants    = errors.New("winner and loser must be the two match participants")
)

// Player errors
var (
	ErrPlayerNotFound = errors.New("player not found")
)
