package service

import (
	"math"
	"time"

	"github.com/d-osc/game-rpg-world-sub001/internal/models"
)

// DefaultKFactor controls the magnitude of rating change per match.
const DefaultKFactor = 32

// ELOService computes rating updates from match outcomes. It is pure
// computation; persistence happens inside the completion transaction.
type ELOService struct {
	kFactor float64
}

func NewELOService(kFactor int) *ELOService {
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}
	return &ELOService{kFactor: float64(kFactor)}
}

// CalculateNewRatings returns the post-match ratings and signed deltas.
// Rounding is math.Round (half away from zero) so rating trajectories are
// reproducible.
func (s *ELOService) CalculateNewRatings(winnerRating, loserRating int) models.RatingChange {
	expectedWinner := s.expectedScore(float64(winnerRating), float64(loserRating))
	expectedLoser := 1.0 - expectedWinner

	newWinner := int(math.Round(float64(winnerRating) + s.kFactor*(1.0-expectedWinner)))
	newLoser := int(math.Round(float64(loserRating) + s.kFactor*(0.0-expectedLoser)))

	return models.RatingChange{
		WinnerRating: newWinner,
		LoserRating:  newLoser,
		WinnerDelta:  newWinner - winnerRating,
		LoserDelta:   newLoser - loserRating,
	}
}

// ApplyOutcome mutates both rating records in place: new ratings, win/loss
// counters, streak bookkeeping, and the last-match timestamp. The winner's
// streak increments and may raise the best streak; the loser's resets to 0.
func (s *ELOService) ApplyOutcome(winner, loser *models.PlayerRating, completedAt time.Time) models.RatingChange {
	change := s.CalculateNewRatings(winner.Rating, loser.Rating)

	winner.Rating = change.WinnerRating
	winner.Wins++
	winner.WinStreak++
	if winner.WinStreak > winner.BestStreak {
		winner.BestStreak = winner.WinStreak
	}
	winner.LastMatchAt = &completedAt

	loser.Rating = change.LoserRating
	loser.Losses++
	loser.WinStreak = 0
	loser.LastMatchAt = &completedAt

	return change
}

// expectedScore is the ELO win expectancy of a against b.
func (s *ELOService) expectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}
