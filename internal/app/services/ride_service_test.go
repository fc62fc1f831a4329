package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

var (
	driver    = appauth.Principal{UserID: 1, Role: models.RoleStudent}
	passenger = appauth.Principal{UserID: 2, Role: models.RoleStudent}
	other     = appauth.Principal{UserID: 3, Role: models.RoleStudent}
	admin     = appauth.Principal{UserID: 9, Role: models.RoleAdmin}
)

func newTestRideService(c cache.Cache) (*RideService, *fakeRideStore) {
	store := newFakeRideStore()
	svc := NewRideService(store, c, time.Minute, nil, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func offerRide(t *testing.T, svc *RideService, seats int) *models.Ride {
	t.Helper()
	ride, err := svc.Create(context.Background(), driver, &dto.CreateRideRequest{
		PickupLocation: "Main Gate",
		DropLocation:   "Airport",
		DepartureTime:  fixedNow.Add(24 * time.Hour),
		TotalSeats:     seats,
		Price:          200,
	})
	require.NoError(t, err)
	return ride
}

func TestRideService_Create(t *testing.T) {
	svc, _ := newTestRideService(nil)
	ride := offerRide(t, svc, 3)
	assert.Equal(t, 3, ride.AvailableSeats)
	assert.Equal(t, driver.UserID, ride.CreatorID)

	_, err := svc.Create(context.Background(), driver, &dto.CreateRideRequest{
		PickupLocation: "A", DropLocation: "B", DepartureTime: fixedNow.Add(-time.Minute), TotalSeats: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrDepartureInThePast)
}

func TestRideService_JoinAndLeave(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRideService(nil)
	ride := offerRide(t, svc, 2)

	joined, err := svc.Join(ctx, passenger, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.AvailableSeats)
	assert.True(t, joined.HasPassenger(passenger.UserID))

	_, err = svc.Join(ctx, passenger, ride.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyJoined)

	_, err = svc.Join(ctx, driver, ride.ID)
	assert.ErrorIs(t, err, apperrors.ErrOwnRide)

	left, err := svc.Leave(ctx, passenger, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, left.AvailableSeats)

	_, err = svc.Leave(ctx, passenger, ride.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAPassenger)
}

func TestRideService_JoinFullRide(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestRideService(nil)
	ride := offerRide(t, svc, 1)

	_, err := svc.Join(ctx, passenger, ride.ID)
	require.NoError(t, err)

	_, err = svc.Join(ctx, other, ride.ID)
	require.ErrorIs(t, err, apperrors.ErrNoSeatsAvailable)
	assert.Equal(t, "No Seats Available", err.Error())

	stored, err := store.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableSeats)
}

func TestRideService_JoinDepartedRide(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRideService(nil)
	ride := offerRide(t, svc, 2)

	svc.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	_, err := svc.Join(ctx, passenger, ride.ID)
	assert.ErrorIs(t, err, apperrors.ErrRideDeparted)
}

func TestRideService_DeleteOnlyByCreator(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRideService(nil)
	ride := offerRide(t, svc, 2)

	assert.ErrorIs(t, svc.Delete(ctx, other, ride.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, driver, ride.ID))

	_, err := svc.Get(ctx, ride.ID)
	assert.ErrorIs(t, err, apperrors.ErrRideNotFound)
}

func listedRides(t *testing.T, page *dto.PaginatedResponse) []*models.Ride {
	t.Helper()
	rides, ok := page.Items.([]*models.Ride)
	require.True(t, ok)
	return rides
}

func TestRideService_ListUsesCacheUntilMutation(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestRideService(&memoryCache{data: map[string][]byte{}})
	ride := offerRide(t, svc, 2)

	page, err := svc.List(ctx, dto.RideFilter{}, 1, 10)
	require.NoError(t, err)
	rides := listedRides(t, page)
	require.Len(t, rides, 1)
	assert.Equal(t, 2, rides[0].AvailableSeats)

	_, err = svc.List(ctx, dto.RideFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists)

	_, err = svc.Join(ctx, passenger, ride.ID)
	require.NoError(t, err)

	page, err = svc.List(ctx, dto.RideFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, store.lists)
	assert.Equal(t, 1, listedRides(t, page)[0].AvailableSeats)
}

func TestRideService_ListPaginates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRideService(nil)
	for i := 0; i < 3; i++ {
		offerRide(t, svc, 2)
	}

	page, err := svc.List(ctx, dto.RideFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, listedRides(t, page), 1)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 2, TotalPages: 2, PageSize: 2, TotalItems: 3}, page.Pagination)

	page, err = svc.List(ctx, dto.RideFilter{}, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, listedRides(t, page))
	assert.Equal(t, 2, page.Pagination.CurrentPage)
}

func TestRideService_Mine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRideService(nil)
	ride := offerRide(t, svc, 2)
	_, err := svc.Join(ctx, passenger, ride.ID)
	require.NoError(t, err)

	mine, err := svc.Mine(ctx, passenger)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	mine, err = svc.Mine(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
