package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("SSE client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("SSE client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all connected clients. Slow clients drop events
// instead of blocking the publisher.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("SSE client buffer full, skipping event", zap.String("client_id", client.ID))
		}
	}
}

// RecordChange is the payload of a record_change event
type RecordChange struct {
	Entity string   `json:"entity"`
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
	UserID string   `json:"user_id,omitempty"`
}

// PublishChange tells every open list view that a collection changed
func (h *Hub) PublishChange(change RecordChange) {
	if h == nil {
		return
	}
	data, err := json.Marshal(change)
	if err != nil {
		return
	}
	h.Broadcast(Event{EventType: "record_change", Data: string(data)})
}
