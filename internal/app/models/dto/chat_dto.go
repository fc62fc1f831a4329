package dto

// CreateRoomRequest creates a chat room
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=60"`
	Description string `json:"description" binding:"max=500"`
}

// SendMessageRequest posts a message to a room
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// MessageHistoryQuery pages backwards through a room's history
type MessageHistoryQuery struct {
	Before int64 `form:"before" binding:"omitempty,gt=0"`
	Limit  int   `form:"limit" binding:"omitempty,min=1,max=200"`
}
