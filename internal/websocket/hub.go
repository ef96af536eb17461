package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// CreditUpdate is pushed to a member's connected clients whenever their
// ledger state changes: a confirmation, a decrement, a pack assignment or
// removal.
type CreditUpdate struct {
	PackName         string     `json:"pack_name,omitempty"`
	ClassesRemaining int        `json:"classes_remaining"`
	Unlimited        bool       `json:"unlimited"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// BroadcastCredits drops the update rather than blocking when a client's
// send buffer is full; the next update supersedes it anyway.
func (h *Hub) BroadcastCredits(userID string, update CreditUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
