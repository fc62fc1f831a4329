package controllers

import (
	"context"
	"net/http"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ChatService is what the chat REST endpoints need
type ChatService interface {
	Rooms(ctx context.Context) ([]*models.ChatRoom, error)
	CreateRoom(ctx context.Context, p appauth.Principal, req *dto.CreateRoomRequest) (*models.ChatRoom, error)
	History(ctx context.Context, roomID int64, q dto.MessageHistoryQuery) ([]*models.ChatMessage, error)
	Send(ctx context.Context, userID, roomID int64, content string) (*models.ChatMessage, error)
	Edit(ctx context.Context, p appauth.Principal, messageID int64, content string) (*models.ChatMessage, error)
	Delete(ctx context.Context, p appauth.Principal, messageID int64) error
}

// ChatController handles chat rooms and message history
type ChatController struct {
	service ChatService
}

// NewChatController creates a new ChatController
func NewChatController(service ChatService) *ChatController {
	return &ChatController{service: service}
}

// Rooms lists all chat rooms
func (c *ChatController) Rooms(ctx *gin.Context) {
	rooms, err := c.service.Rooms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rooms, "")
}

// CreateRoom opens a new room. Admin only.
func (c *ChatController) CreateRoom(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	room, err := c.service.CreateRoom(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, room, "Room created")
}

// History returns a room's messages, newest first
// @Summary Message history
// @Description Pages backwards with before=<message id>
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Param before query int false "Only messages older than this ID"
// @Param limit query int false "Page size, at most 200" default(50)
// @Success 200 {object} dto.APIResponse{data=[]models.ChatMessage}
// @Failure 404 {object} dto.ErrorResponse "Room not found"
// @Router /chat/rooms/{id}/messages [get]
func (c *ChatController) History(ctx *gin.Context) {
	roomID, ok := parseIDParam(ctx, "id", "room")
	if !ok {
		return
	}

	var q dto.MessageHistoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	messages, err := c.service.History(ctx.Request.Context(), roomID, q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, messages, "")
}

// Send posts a message over REST; it is fanned out like a socket message
func (c *ChatController) Send(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	roomID, ok := parseIDParam(ctx, "id", "room")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	message, err := c.service.Send(ctx.Request.Context(), principal.UserID, roomID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, message, "")
}

// Edit changes the content of the caller's own message
func (c *ChatController) Edit(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	messageID, ok := parseIDParam(ctx, "messageId", "message")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	message, err := c.service.Edit(ctx.Request.Context(), principal, messageID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, message, "")
}

// Delete removes a message. Sender or admin.
func (c *ChatController) Delete(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	messageID, ok := parseIDParam(ctx, "messageId", "message")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), principal, messageID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Message deleted")
}
