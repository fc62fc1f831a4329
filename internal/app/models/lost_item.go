package models

import "time"

// LostItemStatus is the lifecycle state of a lost-and-found post
type LostItemStatus string

const (
	LostItemStatusLost    LostItemStatus = "LOST"
	LostItemStatusFound   LostItemStatus = "FOUND"
	LostItemStatusClaimed LostItemStatus = "CLAIMED"
)

// IsValid reports whether s is a known status.
func (s LostItemStatus) IsValid() bool {
	switch s {
	case LostItemStatusLost, LostItemStatusFound, LostItemStatusClaimed:
		return true
	}
	return false
}

// LostItem is a lost-and-found listing
type LostItem struct {
	ID          int64          `json:"id" db:"id"`
	OwnerID     int64          `json:"ownerId" db:"owner_id"`
	OwnerName   string         `json:"ownerName,omitempty"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Location    string         `json:"location" db:"location"`
	Contact     string         `json:"contact" db:"contact"`
	ImagePath   *string        `json:"-" db:"image_path"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	Status      LostItemStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}
