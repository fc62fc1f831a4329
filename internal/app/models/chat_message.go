package models

import "time"

// ChatRoom is a named chat channel
type ChatRoom struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ChatMessage represents a message in a chat room
type ChatMessage struct {
	ID         int64     `json:"id" db:"id"`
	RoomID     int64     `json:"roomId" db:"room_id"`
	SenderID   int64     `json:"senderId" db:"sender_id"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content" db:"content"`
	Edited     bool      `json:"edited" db:"edited"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
