package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatService() (*ChatService, *fakeChatStore, *recordingPublisher) {
	store := newFakeChatStore(1)
	pub := &recordingPublisher{store: store}
	return NewChatService(store, pub, zerolog.Nop()), store, pub
}

func TestChatService_SendPersistsThenPublishes(t *testing.T) {
	svc, _, pub := newTestChatService()

	msg, err := svc.Send(context.Background(), driver.UserID, 1, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.NotZero(t, msg.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, websocket.EventCreated, pub.events[0].Type)
	assert.Equal(t, int64(1), pub.events[0].RoomID)
	assert.Equal(t, []bool{true}, pub.stored)
}

func TestChatService_SendRejections(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newTestChatService()

	_, err := svc.Send(ctx, driver.UserID, 1, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Send(ctx, driver.UserID, 1, strings.Repeat("a", 2001))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Send(ctx, driver.UserID, 7, "hi")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)

	store.failOn = "create"
	_, err = svc.Send(ctx, driver.UserID, 1, "hi")
	assert.Error(t, err)

	assert.Empty(t, pub.events)
}

func TestChatService_PublishFailureStillStores(t *testing.T) {
	svc, store, pub := newTestChatService()
	pub.err = errors.New("redis down")

	msg, err := svc.Send(context.Background(), driver.UserID, 1, "hi")
	require.NoError(t, err)
	_, ok := store.messages[msg.ID]
	assert.True(t, ok)
}

func TestChatService_EditAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestChatService()
	msg, err := svc.Send(ctx, driver.UserID, 1, "hi")
	require.NoError(t, err)

	_, err = svc.Edit(ctx, other, msg.ID, "hijacked")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	edited, err := svc.Edit(ctx, driver, msg.ID, "hi all")
	require.NoError(t, err)
	assert.True(t, edited.Edited)
	assert.Equal(t, "hi all", edited.Content)

	assert.ErrorIs(t, svc.Delete(ctx, other, msg.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, admin, msg.ID))

	types := make([]websocket.EventType, 0, len(pub.events))
	for _, e := range pub.events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []websocket.EventType{websocket.EventCreated, websocket.EventUpdated, websocket.EventDeleted}, types)
}

func TestChatService_History(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestChatService()
	for i := 0; i < 5; i++ {
		_, err := svc.Send(ctx, driver.UserID, 1, "msg")
		require.NoError(t, err)
	}

	page, err := svc.History(ctx, 1, dto.MessageHistoryQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(5), page[0].ID)

	older, err := svc.History(ctx, 1, dto.MessageHistoryQuery{Before: page[1].ID})
	require.NoError(t, err)
	assert.Len(t, older, 3)

	_, err = svc.History(ctx, 9, dto.MessageHistoryQuery{})
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestChatService_CreateRoomAdminOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestChatService()

	_, err := svc.CreateRoom(ctx, driver, &dto.CreateRoomRequest{Name: "sports"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	room, err := svc.CreateRoom(ctx, admin, &dto.CreateRoomRequest{Name: " sports "})
	require.NoError(t, err)
	assert.Equal(t, "sports", room.Name)

	_, err = svc.CreateRoom(ctx, admin, &dto.CreateRoomRequest{Name: "general"})
	assert.ErrorIs(t, err, apperrors.ErrRoomAlreadyExists)
}
