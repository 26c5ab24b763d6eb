package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d-osc/game-rpg-world-sub001/internal/service"
)

type PlayerHandler struct {
	playerService *service.PlayerService
	matchService  *service.MatchService
}

func NewPlayerHandler(playerService *service.PlayerService, matchService *service.MatchService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		matchService:  matchService,
	}
}

// GetStats returns a player's rating record with derived win rate.
func (h *PlayerHandler) GetStats(c *gin.Context) {
	playerID := c.Param("id")

	player, err := h.playerService.GetStats(playerID)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get player stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player":  player,
		"winRate": player.WinRate(),
	})
}

// GetRank returns the player's leaderboard position, or null when the
// player has not played enough matches to be ranked.
func (h *PlayerHandler) GetRank(c *gin.Context) {
	playerID := c.Param("id")

	rank, err := h.playerService.GetRank(playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get player rank"})
		return
	}

	if rank == 0 {
		c.JSON(http.StatusOK, gin.H{"rank": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rank": rank})
}

// GetMatchHistory lists the player's completed matches, newest first.
func (h *PlayerHandler) GetMatchHistory(c *gin.Context) {
	playerID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	matches, err := h.matchService.GetHistory(playerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get match history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}

// ResetPlayer zeroes a player's rating record and clears their match
// history. Admin only.
func (h *PlayerHandler) ResetPlayer(c *gin.Context) {
	playerID := c.Param("id")

	if err := h.playerService.Reset(playerID); err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset player"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"playerId": playerID})
}
