// Package ws pushes console change events to connected UI shells.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event is a message pushed to every shell watching a restaurant.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type roomEvent struct {
	restaurantID uuid.UUID
	event        Event
}

// Hub tracks connected shells per restaurant and fans events out to them.
type Hub struct {
	// Registered clients by restaurant ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan roomEvent
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a Hub. Call Run before publishing.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.restaurantID] == nil {
				h.rooms[client.restaurantID] = make(map[*Client]bool)
			}
			h.rooms[client.restaurantID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case re := <-h.broadcast:
			message, err := json.Marshal(re.event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[re.restaurantID] {
				select {
				case client.send <- message:
				default:
					// Slow shell; drop it rather than block the room.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.restaurantID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.restaurantID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.rooms {
		for client := range clients {
			h.remove(client)
		}
	}
}

// Broadcast queues event for every shell watching restaurantID.
// Events published after the hub has stopped are dropped.
func (h *Hub) Broadcast(restaurantID uuid.UUID, event Event) {
	select {
	case h.broadcast <- roomEvent{restaurantID: restaurantID, event: event}:
	case <-h.done:
	}
}

// Publish marshals payload and broadcasts it as an event of the given type.
func (h *Hub) Publish(restaurantID uuid.UUID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	h.Broadcast(restaurantID, Event{Type: eventType, Payload: raw})
	return nil
}

// ClientCount returns how many shells are watching restaurantID.
func (h *Hub) ClientCount(restaurantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[restaurantID])
}
