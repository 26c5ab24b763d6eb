package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d-osc/game-rpg-world-sub001/internal/service"
)

type QueueHandler struct {
	matchmakingService *service.MatchmakingService
}

func NewQueueHandler(matchmakingService *service.MatchmakingService) *QueueHandler {
	return &QueueHandler{
		matchmakingService: matchmakingService,
	}
}

type joinQueueRequest struct {
	PlayerName string `json:"playerName"`
}

// JoinQueue enqueues the authenticated player for matchmaking.
func (h *QueueHandler) JoinQueue(c *gin.Context) {
	playerID := c.GetString("playerId")

	var req joinQueueRequest
	_ = c.ShouldBindJSON(&req)
	if req.PlayerName == "" {
		req.PlayerName = c.GetString("playerName")
	}
	if req.PlayerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName is required"})
		return
	}

	queueSize, err := h.matchmakingService.JoinQueue(playerID, req.PlayerName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyQueued),
			errors.Is(err, service.ErrPlayerInActiveMatch):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join queue"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queueSize": queueSize,
	})
}

// LeaveQueue removes the authenticated player from the queue. Leaving
// while not queued is reported, not an error.
func (h *QueueHandler) LeaveQueue(c *gin.Context) {
	playerID := c.GetString("playerId")

	removed := h.matchmakingService.LeaveQueue(playerID)

	c.JSON(http.StatusOK, gin.H{
		"removed": removed,
	})
}

// GetQueueStatus returns queue size, average rating and active match count.
func (h *QueueHandler) GetQueueStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.matchmakingService.QueueStatus())
}
