package services

import (
	"context"
	"testing"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	require.NoError(t, users.Create(ctx, &models.User{Email: "asha@campus.edu", Name: "Asha", Role: models.RoleStudent}))
	svc := NewUserService(users, zerolog.Nop())

	hostelID := int64(4)
	room := "B-112"
	updated, err := svc.UpdateProfile(ctx, 1, &dto.UpdateProfileRequest{
		Name:       "  Asha Rao ",
		HostelID:   &hostelID,
		RoomNumber: &room,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.Name)

	stored, err := svc.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "asha@campus.edu", stored.Email)
	require.NotNil(t, stored.HostelID)
	assert.Equal(t, hostelID, *stored.HostelID)
	assert.Equal(t, "B-112", *stored.RoomNumber)
	assert.Nil(t, stored.Phone)

	_, err = svc.GetProfile(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
