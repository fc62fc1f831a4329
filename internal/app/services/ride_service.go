package services

import (
	"context"
	"errors"
	"strings"
	"time"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/cache"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/campusbeacon/api/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

const (
	upcomingRidesKey = "rides:upcoming"
	maxRideSeats     = 10
)

// RideStore persists rides and their passengers. Join and Leave run check
// against the locked ride inside the same transaction as the seat change.
type RideStore interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id int64) (*models.Ride, error)
	List(ctx context.Context, departingAfter *time.Time) ([]*models.Ride, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Ride, error)
	Join(ctx context.Context, rideID, userID int64, check func(*models.Ride) error) error
	Leave(ctx context.Context, rideID, userID int64, check func(*models.Ride) error) error
	Delete(ctx context.Context, id int64) error
}

// RideService handles ride sharing
type RideService struct {
	repo     RideStore
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRideService creates a new RideService. m may be nil.
func NewRideService(repo RideStore, c cache.Cache, cacheTTL time.Duration, m *metrics.Metrics, logger zerolog.Logger) *RideService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &RideService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// upcoming returns future rides, served from the cache when possible.
func (s *RideService) upcoming(ctx context.Context) ([]*models.Ride, error) {
	var rides []*models.Ride
	err := s.cache.Get(ctx, upcomingRidesKey, &rides)
	if err == nil {
		s.metrics.CacheHit("rides")
		return rides, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("Ride cache read failed")
	}
	s.metrics.CacheMiss("rides")

	now := s.now()
	rides, err = s.repo.List(ctx, &now)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, upcomingRidesKey, rides, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Ride cache write failed")
	}
	return rides, nil
}

func (s *RideService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, upcomingRidesKey); err != nil {
		s.logger.Warn().Err(err).Msg("Ride cache invalidation failed")
	}
}

// List returns one page of the rides matching filter, in filter order
func (s *RideService) List(ctx context.Context, filter dto.RideFilter, page, size int) (*dto.PaginatedResponse, error) {
	var (
		rides []*models.Ride
		err   error
	)
	if filter.IncludePast {
		rides, err = s.repo.List(ctx, nil)
	} else {
		rides, err = s.upcoming(ctx)
	}
	if err != nil {
		return nil, err
	}
	matched, err := FilterRides(rides, filter, s.now())
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	start := int(offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return &dto.PaginatedResponse{
		Items:      matched[start:end],
		Pagination: helpers.NewPaginationInfo(int64(len(matched)), page, limit),
	}, nil
}

// Get returns a ride with its passengers
func (s *RideService) Get(ctx context.Context, id int64) (*models.Ride, error) {
	return s.repo.GetByID(ctx, id)
}

// Mine returns the rides the caller created or joined
func (s *RideService) Mine(ctx context.Context, p appauth.Principal) ([]*models.Ride, error) {
	return s.repo.ListByUser(ctx, p.UserID)
}

// Create offers a new ride with every seat available
func (s *RideService) Create(ctx context.Context, p appauth.Principal, req *dto.CreateRideRequest) (*models.Ride, error) {
	if !req.DepartureTime.After(s.now()) {
		return nil, apperrors.ErrDepartureInThePast
	}
	if req.TotalSeats < 1 || req.TotalSeats > maxRideSeats {
		return nil, apperrors.NewValidationError("totalSeats", "totalSeats must be between 1 and 10")
	}
	if req.Price < 0 {
		return nil, apperrors.NewValidationError("price", "price cannot be negative")
	}

	ride := &models.Ride{
		CreatorID:      p.UserID,
		PickupLocation: strings.TrimSpace(req.PickupLocation),
		DropLocation:   strings.TrimSpace(req.DropLocation),
		DepartureTime:  req.DepartureTime.UTC(),
		TotalSeats:     req.TotalSeats,
		Price:          req.Price,
		Description:    strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, ride); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info().Int64("rideID", ride.ID).Int64("creatorID", p.UserID).Msg("Ride created")
	return s.repo.GetByID(ctx, ride.ID)
}

// Join takes one seat of a ride for the caller
func (s *RideService) Join(ctx context.Context, p appauth.Principal, rideID int64) (*models.Ride, error) {
	now := s.now()
	err := s.repo.Join(ctx, rideID, p.UserID, func(ride *models.Ride) error {
		switch {
		case ride.CreatorID == p.UserID:
			return apperrors.ErrOwnRide
		case !ride.DepartureTime.After(now):
			return apperrors.ErrRideDeparted
		case ride.HasPassenger(p.UserID):
			return apperrors.ErrAlreadyJoined
		case ride.AvailableSeats <= 0:
			return apperrors.ErrNoSeatsAvailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info().Int64("rideID", rideID).Int64("userID", p.UserID).Msg("Joined ride")
	return s.repo.GetByID(ctx, rideID)
}

// Leave gives the caller's seat back
func (s *RideService) Leave(ctx context.Context, p appauth.Principal, rideID int64) (*models.Ride, error) {
	now := s.now()
	err := s.repo.Leave(ctx, rideID, p.UserID, func(ride *models.Ride) error {
		if !ride.HasPassenger(p.UserID) {
			return apperrors.ErrNotAPassenger
		}
		if !ride.DepartureTime.After(now) {
			return apperrors.ErrRideDeparted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info().Int64("rideID", rideID).Int64("userID", p.UserID).Msg("Left ride")
	return s.repo.GetByID(ctx, rideID)
}

// Delete removes a ride. Only its creator may do so.
func (s *RideService) Delete(ctx context.Context, p appauth.Principal, rideID int64) error {
	ride, err := s.repo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if err := appauth.RequireOwner(p, ride.CreatorID, "ride"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rideID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
