package dto

import "github.com/campusbeacon/api/internal/app/models"

// SignupRequest represents the registration form
type SignupRequest struct {
	Name               string  `json:"name" binding:"required,min=2,max=100"`
	Email              string  `json:"email" binding:"required,email"`
	Password           string  `json:"password" binding:"required,min=8,max=72,password"`
	RegistrationNumber *string `json:"registrationNumber" binding:"omitempty,max=32"`
	HostelID           *int64  `json:"hostelId" binding:"omitempty,gt=0"`
}

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token. The body may be empty when
// the token travels in the refresh_token cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is the issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	User   *models.User   `json:"user"`
	Tokens *TokenResponse `json:"tokens"`
}

// UpdateProfileRequest updates the caller's own profile
type UpdateProfileRequest struct {
	Name       string  `json:"name" binding:"required,min=2,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
	HostelID   *int64  `json:"hostelId" binding:"omitempty,gt=0"`
	RoomNumber *string `json:"roomNumber" binding:"omitempty,max=16"`
}
