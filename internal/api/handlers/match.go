package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d-osc/game-rpg-world-sub001/internal/service"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

func matchID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match id"})
		return 0, false
	}
	return id, true
}

// StartMatch moves a pending match to in_progress.
func (h *MatchHandler) StartMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}

	if err := h.matchService.Start(id); err != nil {
		if errors.Is(err, service.ErrMatchNotFoundOrStarted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matchId": id})
}

type completeMatchRequest struct {
	WinnerID        string `json:"winnerId" binding:"required"`
	LoserID         string `json:"loserId" binding:"required"`
	DurationSeconds int    `json:"durationSeconds"`
}

// CompleteMatch records a result and returns both rating deltas.
func (h *MatchHandler) CompleteMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}

	var req completeMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := h.matchService.Complete(id, req.WinnerID, req.LoserID, req.DurationSeconds)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMatchNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidParticipants):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete match"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matchId":     id,
		"winnerDelta": change.WinnerDelta,
		"loserDelta":  change.LoserDelta,
	})
}

// CancelMatch marks an active match cancelled.
func (h *MatchHandler) CancelMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}

	if err := h.matchService.Cancel(id); err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matchId": id})
}

// GetActiveMatch returns the authenticated player's current match, or null.
func (h *MatchHandler) GetActiveMatch(c *gin.Context) {
	playerID := c.GetString("playerId")

	match := h.matchService.GetActiveMatch(playerID)

	c.JSON(http.StatusOK, gin.H{
		"match": match,
	})
}
