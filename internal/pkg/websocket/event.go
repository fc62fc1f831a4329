package websocket

import (
	"context"

	"github.com/campusbeacon/api/internal/app/models"
)

// EventType names what happened to a chat message
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
	// EventError is only sent to the client whose inbound message failed
	EventError EventType = "error"
)

// Event is the payload pushed to websocket clients of a room
type Event struct {
	Type    EventType           `json:"type"`
	RoomID  int64               `json:"roomId"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Publisher fans chat events out to connected clients
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// InboundFunc handles content a client typed into a room. It is expected to
// persist the message and publish the resulting event.
type InboundFunc func(ctx context.Context, userID, roomID int64, content string) error

// inboundMessage is what clients send over the socket
type inboundMessage struct {
	Content string `json:"content"`
}
