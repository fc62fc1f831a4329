package services

import (
	"testing"
	"time"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRides() []*models.Ride {
	at := func(day, hour int) time.Time { return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC) }
	return []*models.Ride{
		{ID: 1, PickupLocation: "Main Gate", DropLocation: "Airport", DepartureTime: at(15, 9), AvailableSeats: 3, Price: 250},
		{ID: 2, PickupLocation: "Airport", DropLocation: "Main Gate", DepartureTime: at(16, 18), AvailableSeats: 1, Price: 300},
		{ID: 3, PickupLocation: "Library", DropLocation: "Railway Station", DepartureTime: at(15, 7), AvailableSeats: 0, Price: 120, Description: "via airport road"},
		{ID: 4, PickupLocation: "Main Gate", DropLocation: "Mall", DepartureTime: at(13, 9), AvailableSeats: 2, Price: 80},
	}
}

func rideIDs(rides []*models.Ride) []int64 {
	ids := make([]int64, 0, len(rides))
	for _, r := range rides {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFilterRides(t *testing.T) {
	maxPrice := 260.0
	tests := []struct {
		name   string
		filter dto.RideFilter
		want   []int64
	}{
		{name: "default hides past rides and sorts by departure", want: []int64{3, 1, 2}},
		{name: "include past", filter: dto.RideFilter{IncludePast: true}, want: []int64{4, 3, 1, 2}},
		{name: "search any direction", filter: dto.RideFilter{Search: "AIRPORT"}, want: []int64{3, 1, 2}},
		{name: "search from", filter: dto.RideFilter{Search: "airport", Direction: dto.DirectionFrom}, want: []int64{2}},
		{name: "search to", filter: dto.RideFilter{Search: "airport", Direction: dto.DirectionTo}, want: []int64{1}},
		{name: "single day", filter: dto.RideFilter{DateFrom: "2025-03-15", DateTo: "2025-03-15"}, want: []int64{3, 1}},
		{name: "min seats", filter: dto.RideFilter{MinSeats: 2}, want: []int64{1}},
		{name: "max price", filter: dto.RideFilter{MaxPrice: &maxPrice}, want: []int64{3, 1}},
		{name: "price desc", filter: dto.RideFilter{SortBy: dto.SortByPrice, Order: "desc"}, want: []int64{2, 1, 3}},
		{name: "seats asc", filter: dto.RideFilter{SortBy: dto.SortBySeats}, want: []int64{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterRides(sampleRides(), tt.filter, fixedNow)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, rideIDs(got)); diff != "" {
				t.Errorf("FilterRides() ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterRides_InvalidDates(t *testing.T) {
	_, err := FilterRides(sampleRides(), dto.RideFilter{DateFrom: "15/03/2025"}, fixedNow)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = FilterRides(sampleRides(), dto.RideFilter{DateFrom: "2025-03-16", DateTo: "2025-03-15"}, fixedNow)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestFilterRides_DoesNotReorderInput(t *testing.T) {
	rides := sampleRides()
	_, err := FilterRides(rides, dto.RideFilter{SortBy: dto.SortByPrice}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, rideIDs(rides))
}

func TestFilterRides_DayBoundsFollowServerZone(t *testing.T) {
	late := &models.Ride{ID: 7, PickupLocation: "Main Gate", DropLocation: "Airport",
		DepartureTime: time.Date(2025, 3, 15, 20, 0, 0, 0, time.UTC), AvailableSeats: 2}
	filter := dto.RideFilter{DateFrom: "2025-03-16", DateTo: "2025-03-16"}

	ist := time.FixedZone("IST", 5*3600+1800)
	got, err := FilterRides([]*models.Ride{late}, filter, time.Date(2025, 3, 14, 0, 0, 0, 0, ist))
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, rideIDs(got))

	got, err = FilterRides([]*models.Ride{late}, filter, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)
}
