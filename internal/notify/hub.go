// Package notify is the realtime channel announcing new orders to
// connected clients. Delivery is best effort: sends never block and a
// slow client's messages are dropped, so order creation can treat the
// whole channel as fire-and-forget.
package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/rafaapcode/waitery-backend-sub000/internal/monitoring"
)

// ActionNewOrder is the action published when an order is created.
const ActionNewOrder = "new-order"

// Event is the payload published to a channel.
type Event struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

// OrderChannel names the realtime channel of one tenant's order feed.
func OrderChannel(orgID string) string {
	return fmt.Sprintf("orders:%s", orgID)
}

// Hub fans events out to the websocket clients subscribed to each
// channel.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[*client]bool)}
}

func (h *Hub) register(channel string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*client]bool)
	}
	h.channels[channel][c] = true
}

func (h *Hub) unregister(channel string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.channels[channel]; ok {
		if clients[c] {
			delete(clients, c)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Subscribers reports how many clients are attached to a channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Publish marshals the event and hands it to every subscriber of the
// channel without blocking. Full client buffers drop the message.
func (h *Hub) Publish(channel string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify: failed to marshal event for %s: %v", channel, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.channels[channel] {
		select {
		case c.send <- data:
		default:
			monitoring.NotificationsDropped.Inc()
			log.Printf("notify: buffer full on %s, dropping message", channel)
		}
	}
}
