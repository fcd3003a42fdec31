package realtime

import (
	"encoding/json"
	"sync"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
// Send is called with the hub locked and must not block: a client that
// cannot take the message right away reports false and misses it.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event types published after a store mutation.
const (
	EventCreated = "task_created"
	EventUpdated = "task_updated"
	EventDeleted = "task_deleted"
	EventCleared = "tasks_cleared"
)

// Event describes one change to the store.
type Event struct {
	Type string          `json:"type"`
	Kind models.TaskType `json:"kind"`
	ID   int             `json:"id,omitempty"`
}

// Hub maintains active connections and broadcasts change events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
}

// NewHub returns a hub with no clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[Client]struct{}),
	}
}

// Register adds a client.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes a client.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client. It returns how many clients
// accepted it.
func (h *Hub) Broadcast(message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish encodes evt as JSON and broadcasts it.
func (h *Hub) Publish(evt Event) {
	if bytes, err := json.Marshal(evt); err == nil {
		h.Broadcast(bytes)
	}
}

var eventTypes = map[manager.ChangeOp]string{
	manager.OpCreated: EventCreated,
	manager.OpUpdated: EventUpdated,
	manager.OpDeleted: EventDeleted,
	manager.OpCleared: EventCleared,
}

// Notify publishes a store change. It is meant to be installed as
// manager.Options.OnChange.
func (h *Hub) Notify(c manager.Change) {
	typ, ok := eventTypes[c.Op]
	if !ok {
		return
	}
	h.Publish(Event{Type: typ, Kind: c.Kind, ID: c.ID})
}
