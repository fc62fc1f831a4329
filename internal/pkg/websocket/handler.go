package websocket

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// RoomChecker reports whether a chat room exists
type RoomChecker interface {
	RoomExists(ctx context.Context, roomID int64) (bool, error)
}

// UserResolver extracts the authenticated user id from a request
type UserResolver func(c *gin.Context) (int64, bool)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	rooms    RoomChecker
	user     UserResolver
	inbound  InboundFunc
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins list
// accepts any origin.
func NewHandler(hub *Hub, rooms RoomChecker, user UserResolver, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:   hub,
		rooms: rooms,
		user:  user,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// SetInboundHandler wires messages typed by clients into the chat service.
func (h *Handler) SetInboundHandler(fn InboundFunc) {
	h.inbound = fn
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return set[u.Scheme+"://"+u.Host]
	}
}

func abortJSON(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

// HandleConnection upgrades GET /chat/rooms/:id/ws to a websocket subscribed to the room.
func (h *Handler) HandleConnection(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || roomID <= 0 {
		abortJSON(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid room ID")
		return
	}

	userID, ok := h.user(c)
	if !ok {
		abortJSON(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
		return
	}

	exists, err := h.rooms.RoomExists(c.Request.Context(), roomID)
	if err != nil {
		h.logger.Error().Err(err).Int64("roomID", roomID).Msg("Failed to look up chat room")
		abortJSON(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
		return
	}
	if !exists {
		abortJSON(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "chat room not found")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn().Err(err).Int64("roomID", roomID).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		userID:  userID,
		roomID:  roomID,
		inbound: h.inbound,
		logger:  h.logger,
	}
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
