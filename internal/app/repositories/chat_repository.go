package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chat rooms and messages
type ChatRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListRooms returns every chat room ordered by name
func (r *ChatRepository) ListRooms(ctx context.Context) ([]*models.ChatRoom, error) {
	query := `
		SELECT id, name, description, COALESCE(created_by, 0), created_at
		FROM chat_rooms
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing chat rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*models.ChatRoom{}
	for rows.Next() {
		room := &models.ChatRoom{}
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.CreatedBy, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning chat room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// CreateRoom inserts a chat room
func (r *ChatRepository) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	var createdBy *int64
	if room.CreatedBy > 0 {
		createdBy = &room.CreatedBy
	}

	query := `
		INSERT INTO chat_rooms (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, room.Name, room.Description, createdBy).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "chat_rooms_name_key") {
			return apperrors.ErrRoomAlreadyExists
		}
		return fmt.Errorf("error creating chat room: %w", err)
	}
	return nil
}

// RoomExists reports whether a chat room with the ID exists
func (r *ChatRepository) RoomExists(ctx context.Context, roomID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM chat_rooms WHERE id = $1)`, roomID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking chat room: %w", err)
	}
	return exists, nil
}

const messageSelect = `
	SELECT cm.id, cm.room_id, cm.sender_id, u.name, cm.content, cm.edited, cm.created_at, cm.updated_at
	FROM chat_messages cm
	JOIN users u ON u.id = cm.sender_id
`

func scanMessage(row pgx.Row) (*models.ChatMessage, error) {
	m := &models.ChatMessage{}
	err := row.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderName, &m.Content, &m.Edited, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMessage inserts a chat message and fills in the sender's name
func (r *ChatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	query := `
		WITH inserted AS (
			INSERT INTO chat_messages (room_id, sender_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at, sender_id
		)
		SELECT i.id, i.created_at, i.updated_at, u.name
		FROM inserted i
		JOIN users u ON u.id = i.sender_id
	`

	err := r.db.QueryRow(ctx, query, message.RoomID, message.SenderID, message.Content).
		Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt, &message.SenderName)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrRoomNotFound
		}
		return fmt.Errorf("error creating chat message: %w", err)
	}
	return nil
}

// GetMessage retrieves a message by its ID
func (r *ChatRepository) GetMessage(ctx context.Context, id int64) (*models.ChatMessage, error) {
	m, err := scanMessage(r.db.QueryRow(ctx, messageSelect+` WHERE cm.id = $1`, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error retrieving chat message: %w", err)
	}
	return m, nil
}

// ListMessages returns up to limit messages of a room, newest first. A
// positive before only returns messages with a smaller ID.
func (r *ChatRepository) ListMessages(ctx context.Context, roomID, before int64, limit int) ([]*models.ChatMessage, error) {
	q := r.sb.Select("cm.id", "cm.room_id", "cm.sender_id", "u.name", "cm.content", "cm.edited",
		"cm.created_at", "cm.updated_at").
		From("chat_messages cm").
		Join("users u ON u.id = cm.sender_id").
		Where(squirrel.Eq{"cm.room_id": roomID}).
		OrderBy("cm.id DESC").
		Limit(uint64(limit))
	if before > 0 {
		q = q.Where(squirrel.Lt{"cm.id": before})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.ChatMessage, 0, limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat message rows: %w", err)
	}
	return messages, nil
}

// UpdateMessage replaces the content of a message and marks it edited
func (r *ChatRepository) UpdateMessage(ctx context.Context, message *models.ChatMessage) error {
	query := `
		UPDATE chat_messages
		SET content = $1, edited = TRUE, updated_at = NOW()
		WHERE id = $2
		RETURNING edited, updated_at
	`

	err := r.db.QueryRow(ctx, query, message.Content, message.ID).Scan(&message.Edited, &message.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrMessageNotFound
		}
		return fmt.Errorf("error updating chat message: %w", err)
	}
	return nil
}

// DeleteMessage removes a chat message
func (r *ChatRepository) DeleteMessage(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting chat message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
