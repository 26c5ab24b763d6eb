package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinRate(t *testing.T) {
	tests := []struct {
		name   string
		wins   int
		losses int
		want   float64
	}{
		{"no matches", 0, 0, 0},
		{"all wins", 5, 0, 100},
		{"all losses", 0, 5, 0},
		{"two thirds", 2, 1, 66.67},
		{"half", 3, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PlayerRating{Wins: tt.wins, Losses: tt.losses}
			assert.Equal(t, tt.want, p.WinRate())
			assert.Equal(t, tt.wins+tt.losses, p.TotalMatches())
		})
	}
}

func TestMatchStatusTerminal(t *testing.T) {
	assert.False(t, MatchStatusPending.Terminal())
	assert.False(t, MatchStatusInProgress.Terminal())
	assert.True(t, MatchStatusCompleted.Terminal())
	assert.True(t, MatchStatusCancelled.Terminal())
}

func TestMatchParticipants(t *testing.T) {
	m := &Match{Player1ID: "alice", Player2ID: "bob"}

	assert.True(t, m.HasParticipant("alice"))
	assert.True(t, m.HasParticipant("bob"))
	assert.False(t, m.HasParticipant("mallory"))

	assert.Equal(t, "bob", m.Opponent("alice"))
	assert.Equal(t, "alice", m.Opponent("bob"))
	assert.Equal(t, "", m.Opponent("mallory"))
}
