package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLostFoundService_CreateDefaultsToLost(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewLostFoundService(newFakeLostItemStore(), storage, zerolog.Nop())

	item, err := svc.Create(context.Background(), driver, &dto.CreateLostItemRequest{
		Name:     " Blue umbrella ",
		Location: "Library",
	}, &multipart.FileHeader{Filename: "umbrella.jpg", Size: 10})
	require.NoError(t, err)

	assert.Equal(t, "Blue umbrella", item.Name)
	assert.Equal(t, models.LostItemStatusLost, item.Status)
	require.NotNil(t, item.ImageURL)
	assert.Equal(t, "/uploads/lost-items/umbrella.jpg", *item.ImageURL)
}

func TestLostFoundService_DeleteOnlyByOwner(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	svc := NewLostFoundService(newFakeLostItemStore(), storage, zerolog.Nop())

	item, err := svc.Create(ctx, driver, &dto.CreateLostItemRequest{Name: "Keys", Location: "Canteen"},
		&multipart.FileHeader{Filename: "keys.jpg"})
	require.NoError(t, err)

	err = svc.Delete(ctx, other, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	err = svc.Delete(ctx, admin, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Get(ctx, item.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, driver, item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrLostItemNotFound)
	assert.Equal(t, []string{"lost-items/keys.jpg"}, storage.deleted)

	page, err := svc.List(ctx, dto.LostItemFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestLostFoundService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewLostFoundService(newFakeLostItemStore(), &fakeStorage{}, zerolog.Nop())
	item, err := svc.Create(ctx, driver, &dto.CreateLostItemRequest{Name: "Wallet", Location: "Gym"}, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, other, item.ID, models.LostItemStatusFound)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.UpdateStatus(ctx, driver, item.ID, models.LostItemStatusClaimed)
	require.NoError(t, err)
	assert.Equal(t, models.LostItemStatusClaimed, updated.Status)
	assert.Nil(t, updated.ImageURL)
}
