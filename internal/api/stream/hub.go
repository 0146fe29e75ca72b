// Package stream pushes value signals to WebSocket subscribers. Clients
// subscribe with optional sport and strength filters; slow clients are
// dropped rather than allowed to back up the hub.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/fortuna/vantage/internal/datalayer"
)

// Hub maintains the set of active clients and fans signals out to them.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan datalayer.Signal
	register   chan *Client
	unregister chan *Client

	// done is closed by shutdown so register/unregister senders never
	// block on a loop that has already returned.
	done chan struct{}
}

// NewHub creates an idle hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan datalayer.Signal, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. Returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Println("[stream] hub started")
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case sig := <-h.broadcast:
			h.broadcastSignal(sig)
		}
	}
}

// Broadcast queues a signal for delivery. Non-blocking: when the hub is
// backed up the signal is dropped, consumers can replay from snapshots.
func (h *Hub) Broadcast(sig datalayer.Signal) {
	select {
	case h.broadcast <- sig:
	default:
		log.Println("[stream] broadcast buffer full, dropping signal")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.clients[c] = true
	log.Printf("[stream] client connected (total: %d)", len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Printf("[stream] client disconnected (total: %d)", len(h.clients))
	}
}

func (h *Hub) broadcastSignal(sig datalayer.Signal) {
	payload, err := json.Marshal(envelope{Type: "value_signal", Payload: sig})
	if err != nil {
		log.Printf("[stream] failed to marshal signal: %v", err)
		return
	}

	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.wants(sig) {
			continue
		}
		select {
		case c.send <- payload:
		default:
			// Buffer full means the client is too slow to keep up.
			log.Println("[stream] client buffer full, disconnecting")
			go h.drop(c)
		}
	}
}

// attach hands a new client to the loop; after shutdown the connection is
// refused by closing its send channel so the write pump exits.
func (h *Hub) attach(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

// drop hands a client back to the loop for removal. After shutdown there
// is nothing left to remove.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	close(h.done)
	log.Printf("[stream] shutting down hub (%d active clients)", len(h.clients))
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

type envelope struct {
	Type    string           `json:"type"`
	Payload datalayer.Signal `json:"payload"`
}

// wants applies the client's subscription filter.
func (c *Client) wants(sig datalayer.Signal) bool {
	if len(c.sports) > 0 && !c.sports[sig.Sport] {
		return false
	}
	return sig.Edge.Strength.Rank() >= c.minRank
}
