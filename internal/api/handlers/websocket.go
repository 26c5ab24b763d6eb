package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d-osc/game-rpg-world-sub001/internal/websocket"
)

type WebSocketHandler struct {
	hub *websocket.Hub
}

func NewWebSocketHandler(hub *websocket.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// HandleWebSocket upgrades the connection for the authenticated player.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	playerID, exists := c.Get("playerId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	websocket.ServeWs(h.hub, c.Writer, c.Request, playerID.(string))
}
