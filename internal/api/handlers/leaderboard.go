package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d-osc/game-rpg-world-sub001/internal/service"
)

type LeaderboardHandler struct {
	playerService *service.PlayerService
}

func NewLeaderboardHandler(playerService *service.PlayerService) *LeaderboardHandler {
	return &LeaderboardHandler{
		playerService: playerService,
	}
}

// GetLeaderboard returns players ranked by rating. Players below the
// minimum match count are excluded.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.playerService.GetLeaderboard(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"total":       len(entries),
	})
}
