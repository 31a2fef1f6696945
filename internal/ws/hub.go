package ws

import (
	"encoding/json"
	"sync"

	"todo_app/internal/domain"
	"todo_app/internal/logger"
)

// Hub fans task events out to every connected client.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()

	logger.Debug("ws client registered", "client_id", c.ID, "clients", n)
	h.sendTo(c, mustMarshal(map[string]string{"type": "ready"}))
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.Send)
	logger.Debug("ws client unregistered", "client_id", c.ID, "clients", len(h.clients))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish implements service.EventPublisher. Clients whose buffer is full are dropped.
func (h *Hub) Publish(event domain.TaskEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		logger.Error("ws marshal task event", "error", err, "type", event.Type)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.Send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("ws client too slow, dropping", "client_id", c.ID)
		h.Unregister(c)
	}
}

func (h *Hub) sendTo(c *Client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
