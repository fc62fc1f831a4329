package services

import (
	"context"
	"strings"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/rs/zerolog"
)

// UserService handles the caller's own profile
type UserService struct {
	userRepo UserStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, logger zerolog.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetProfile returns the user with the given ID
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes the editable profile fields of the user
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Phone = req.Phone
	user.HostelID = req.HostelID
	user.RoomNumber = req.RoomNumber

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("userID", userID).Msg("Profile updated")
	return user, nil
}
