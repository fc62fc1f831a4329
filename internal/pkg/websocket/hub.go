package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campusbeacon/api/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	// Registered clients organized by room ID
	clients map[int64]map[*Client]bool

	// Events waiting to be delivered to local clients
	broadcast chan Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Guards clients for readers outside the Run goroutine
	mu sync.RWMutex

	done    chan struct{}
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHub creates a new Hub instance. m may be nil.
func NewHub(logger zerolog.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[int64]map[*Client]bool),
		done:       make(chan struct{}),
		metrics:    m,
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Publish queues an event for local delivery. It implements Publisher for
// single instance deployments.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register adds a client; it returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. Safe to call after the hub stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	roomID := client.roomID
	if _, ok := h.clients[roomID]; !ok {
		h.clients[roomID] = make(map[*Client]bool)
	}
	h.clients[roomID][client] = true
	if h.metrics != nil {
		h.metrics.WebsocketClients.Inc()
	}

	h.logger.Info().
		Int64("roomID", roomID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

// dropLocked removes client and closes its send channel. h.mu must be held.
func (h *Hub) dropLocked(client *Client) {
	room, ok := h.clients[client.roomID]
	if !ok || !room[client] {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(h.clients, client.roomID)
	}
	if h.metrics != nil {
		h.metrics.WebsocketClients.Dec()
	}

	h.logger.Info().
		Int64("roomID", client.roomID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

// broadcastEvent sends an event to every client in its room. Clients whose
// buffers are full are dropped on the spot.
func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Int64("roomID", event.RoomID).Msg("Failed to marshal event for broadcast")
		return
	}
	if h.metrics != nil {
		h.metrics.ChatEvents.WithLabelValues(string(event.Type)).Inc()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[event.RoomID]
	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn().Int64("userID", client.userID).Int64("roomID", event.RoomID).Msg("Dropping slow client")
			h.dropLocked(client)
		}
	}

	h.logger.Debug().
		Int64("roomID", event.RoomID).
		Str("type", string(event.Type)).
		Int("clientCount", len(clients)).
		Msg("Event broadcasted to room")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.clients {
		for client := range room {
			h.dropLocked(client)
		}
	}
}

// ClientCount returns the number of connected clients in a room
func (h *Hub) ClientCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[roomID])
}
