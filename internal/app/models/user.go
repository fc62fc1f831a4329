package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                 int64      `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Email              string     `json:"email" db:"email"`
	Password           string     `json:"-" db:"password"`
	Role               RoleType   `json:"role" db:"role"`
	RegistrationNumber *string    `json:"registrationNumber,omitempty" db:"registration_number"`
	Phone              *string    `json:"phone,omitempty" db:"phone"`
	HostelID           *int64     `json:"hostelId,omitempty" db:"hostel_id"`
	RoomNumber         *string    `json:"roomNumber,omitempty" db:"room_number"`
	IsActive           bool       `json:"isActive" db:"is_active"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RefreshToken is a rotating refresh token stored in the 'refresh_tokens' table
type RefreshToken struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	IsRevoked bool      `db:"is_revoked"`
	CreatedAt time.Time `db:"created_at"`
}
