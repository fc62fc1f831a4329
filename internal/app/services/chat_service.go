package services

import (
	"context"
	"strings"
	"unicode/utf8"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	maxMessageLength    = 2000
)

// ChatStore persists chat rooms and messages
type ChatStore interface {
	ListRooms(ctx context.Context) ([]*models.ChatRoom, error)
	CreateRoom(ctx context.Context, room *models.ChatRoom) error
	RoomExists(ctx context.Context, roomID int64) (bool, error)
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	GetMessage(ctx context.Context, id int64) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, roomID, before int64, limit int) ([]*models.ChatMessage, error)
	UpdateMessage(ctx context.Context, message *models.ChatMessage) error
	DeleteMessage(ctx context.Context, id int64) error
}

// ChatService handles chat rooms and messages. Messages are persisted
// before they are published to connected clients.
type ChatService struct {
	repo      ChatStore
	publisher websocket.Publisher
	logger    zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(repo ChatStore, publisher websocket.Publisher, logger zerolog.Logger) *ChatService {
	return &ChatService{repo: repo, publisher: publisher, logger: logger}
}

// Rooms lists every chat room
func (s *ChatService) Rooms(ctx context.Context) ([]*models.ChatRoom, error) {
	return s.repo.ListRooms(ctx)
}

// CreateRoom adds a chat room. Admin only.
func (s *ChatService) CreateRoom(ctx context.Context, p appauth.Principal, req *dto.CreateRoomRequest) (*models.ChatRoom, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	room := &models.ChatRoom{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   p.UserID,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("roomID", room.ID).Str("name", room.Name).Msg("Chat room created")
	return room, nil
}

// RoomExists reports whether a room exists
func (s *ChatService) RoomExists(ctx context.Context, roomID int64) (bool, error) {
	return s.repo.RoomExists(ctx, roomID)
}

func (s *ChatService) requireRoom(ctx context.Context, roomID int64) error {
	ok, err := s.repo.RoomExists(ctx, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrRoomNotFound
	}
	return nil
}

// History returns up to limit messages older than before, newest first. A
// zero before starts from the latest message.
func (s *ChatService) History(ctx context.Context, roomID int64, q dto.MessageHistoryQuery) ([]*models.ChatMessage, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.ListMessages(ctx, roomID, q.Before, limit)
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.NewValidationError("content", "message cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return "", apperrors.NewValidationError("content", "message is too long")
	}
	return content, nil
}

// publish fans an event out. The message is already stored, so failures
// are only logged.
func (s *ChatService) publish(ctx context.Context, eventType websocket.EventType, message *models.ChatMessage) {
	event := websocket.Event{Type: eventType, RoomID: message.RoomID, Message: message}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Int64("roomID", message.RoomID).Int64("messageID", message.ID).
			Str("event", string(eventType)).Msg("Failed to publish chat event")
	}
}

// Send stores a message from userID in roomID and publishes it
func (s *ChatService) Send(ctx context.Context, userID, roomID int64, content string) (*models.ChatMessage, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{RoomID: roomID, SenderID: userID, Content: content}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.publish(ctx, websocket.EventCreated, message)
	return message, nil
}

// HandleInbound sends content typed over a websocket connection
func (s *ChatService) HandleInbound(ctx context.Context, userID, roomID int64, content string) error {
	_, err := s.Send(ctx, userID, roomID, content)
	return err
}

// Edit replaces the content of a message. Only its sender may do so.
func (s *ChatService) Edit(ctx context.Context, p appauth.Principal, messageID int64, content string) (*models.ChatMessage, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	message, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireOwner(p, message.SenderID, "message"); err != nil {
		return nil, err
	}

	message.Content = content
	if err := s.repo.UpdateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.publish(ctx, websocket.EventUpdated, message)
	return message, nil
}

// Delete removes a message. Its sender or an admin may do so.
func (s *ChatService) Delete(ctx context.Context, p appauth.Principal, messageID int64) error {
	message, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if err := appauth.RequireOwnerOrAdmin(p, message.SenderID, "message"); err != nil {
		return err
	}
	if err := s.repo.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.publish(ctx, websocket.EventDeleted, message)
	return nil
}
