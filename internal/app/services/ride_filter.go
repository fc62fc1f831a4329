package services

import (
	"sort"
	"strings"
	"time"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/helpers"
)

// FilterRides applies the list query of the rides page to rides and returns
// a new, sorted slice. Rides departing at or before now are dropped unless
// the filter asks for past rides. Day bounds are taken in the location of now.
func FilterRides(rides []*models.Ride, f dto.RideFilter, now time.Time) ([]*models.Ride, error) {
	var from, to time.Time
	if f.DateFrom != "" {
		d, err := helpers.ParseDateIn(f.DateFrom, now.Location())
		if err != nil {
			return nil, apperrors.NewValidationError("dateFrom", err.Error())
		}
		from = d
	}
	if f.DateTo != "" {
		d, err := helpers.ParseDateIn(f.DateTo, now.Location())
		if err != nil {
			return nil, apperrors.NewValidationError("dateTo", err.Error())
		}
		to = d.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, apperrors.NewValidationError("dateFrom", "dateFrom cannot be after dateTo")
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]*models.Ride, 0, len(rides))
	for _, ride := range rides {
		if !f.IncludePast && !ride.DepartureTime.After(now) {
			continue
		}
		if search != "" && !rideMatches(ride, search, f.Direction) {
			continue
		}
		if !from.IsZero() && ride.DepartureTime.Before(from) {
			continue
		}
		if !to.IsZero() && !ride.DepartureTime.Before(to) {
			continue
		}
		if f.MinSeats > 0 && ride.AvailableSeats < f.MinSeats {
			continue
		}
		if f.MaxPrice != nil && ride.Price > *f.MaxPrice {
			continue
		}
		out = append(out, ride)
	}

	sortRides(out, f.SortBy, strings.EqualFold(f.Order, "desc"))
	return out, nil
}

func rideMatches(ride *models.Ride, search string, direction dto.RideDirection) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), search) }
	switch direction {
	case dto.DirectionFrom:
		return contains(ride.PickupLocation)
	case dto.DirectionTo:
		return contains(ride.DropLocation)
	default:
		return contains(ride.PickupLocation) || contains(ride.DropLocation) || contains(ride.Description)
	}
}

func sortRides(rides []*models.Ride, by dto.RideSortField, desc bool) {
	key := func(a, b *models.Ride) int {
		switch by {
		case dto.SortByPrice:
			return compareFloat(a.Price, b.Price)
		case dto.SortBySeats:
			return compareInt(a.AvailableSeats, b.AvailableSeats)
		default:
			return a.DepartureTime.Compare(b.DepartureTime)
		}
	}

	sort.SliceStable(rides, func(i, j int) bool {
		a, b := rides[i], rides[j]
		c := key(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		// Ties fall back to the earliest departure, then the oldest ride.
		if c = a.DepartureTime.Compare(b.DepartureTime); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	return compareFloat(float64(a), float64(b))
}
