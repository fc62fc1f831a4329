package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8 * 1024

	// Outbound buffer per client; a full buffer gets the client dropped
	sendBufferSize = 256

	// Time allowed for an inbound message to be persisted
	inboundTimeout = 5 * time.Second
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	userID int64
	roomID int64

	inbound InboundFunc
	logger  zerolog.Logger
}

// readPump pumps messages from the websocket connection to the inbound handler
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Int64("userID", c.userID).Int64("roomID", c.roomID).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Int64("userID", c.userID).Int64("roomID", c.roomID).Msg("WebSocket closed")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(bytes.TrimSpace(raw), &msg); err != nil {
			c.reply(Event{Type: EventError, RoomID: c.roomID, Error: "malformed message"})
			continue
		}
		if c.inbound == nil {
			continue
		}

		// The sender and room always come from the authenticated connection
		ctx, cancel := context.WithTimeout(context.Background(), inboundTimeout)
		err = c.inbound(ctx, c.userID, c.roomID, msg.Content)
		cancel()
		if err != nil {
			c.logger.Debug().Err(err).Int64("userID", c.userID).Int64("roomID", c.roomID).Msg("Inbound message rejected")
			c.reply(Event{Type: EventError, RoomID: c.roomID, Error: err.Error()})
		}
	}
}

// reply sends an event to this client only, dropping it if the buffer is full.
func (c *Client) reply(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c.roomID][c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame so browsers can JSON.parse each message
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
