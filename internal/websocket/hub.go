package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks one connection per player and routes realtime events
// (match_found, match_completed) to them.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

// Message is a routed WebSocket message. An empty PlayerID broadcasts to
// every connected player.
type Message struct {
	PlayerID string      `json:"-"`
	Type     string      `json:"type"`
	Payload  interface{} `json:"payload"`
}

func NewHub() *Hub {
	logger, _ := zap.NewProduction()
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes register/unregister/broadcast events; call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.routeMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A player reconnecting replaces their previous connection.
	if oldClient, exists := h.clients[client.playerID]; exists {
		close(oldClient.send)
		h.logger.Info("Replaced existing WebSocket connection",
			zap.String("playerId", client.playerID))
	}

	h.clients[client.playerID] = client
	h.logger.Info("WebSocket client registered",
		zap.String("playerId", client.playerID),
		zap.Int("totalClients", len(h.clients)))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, exists := h.clients[client.playerID]; exists && current == client {
		delete(h.clients, client.playerID)
		close(client.send)
		h.logger.Info("WebSocket client unregistered",
			zap.String("playerId", client.playerID),
			zap.Int("totalClients", len(h.clients)))
	}
}

func (h *Hub) routeMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if message.PlayerID == "" {
		for _, client := range h.clients {
			select {
			case client.send <- message:
			default:
				h.logger.Warn("Client send channel full, unregistering",
					zap.String("playerId", client.playerID))
				go func(c *Client) {
					h.unregister <- c
				}(client)
			}
		}
		return
	}

	if client, exists := h.clients[message.PlayerID]; exists {
		select {
		case client.send <- message:
		default:
			h.logger.Warn("Client send channel full",
				zap.String("playerId", message.PlayerID))
		}
	}
}

// SendToPlayer queues a message for one player. Players without an open
// connection miss the push; durable state stays in the database.
func (h *Hub) SendToPlayer(playerID, msgType string, payload interface{}) {
	h.broadcast <- &Message{
		PlayerID: playerID,
		Type:     msgType,
		Payload:  payload,
	}
}

// Broadcast queues a message for every connected player.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	h.broadcast <- &Message{
		Type:    msgType,
		Payload: payload,
	}
}
