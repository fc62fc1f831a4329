package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/db"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/dberrors"
	"github.com/campusbeacon/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var rideColumns = []string{
	"r.id", "r.creator_id", "u.name", "r.pickup_location", "r.drop_location", "r.departure_time",
	"r.total_seats", "r.available_seats", "r.price", "r.description", "r.created_at",
}

// RideRepository handles ride sharing database operations
type RideRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRideRepository creates a new RideRepository
func NewRideRepository(db *pgxpool.Pool) *RideRepository {
	return &RideRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanRide(row pgx.Row) (*models.Ride, error) {
	ride := &models.Ride{Passengers: []models.RidePassenger{}}
	err := row.Scan(
		&ride.ID, &ride.CreatorID, &ride.CreatorName, &ride.PickupLocation, &ride.DropLocation,
		&ride.DepartureTime, &ride.TotalSeats, &ride.AvailableSeats, &ride.Price, &ride.Description,
		&ride.CreatedAt,
	)
	return ride, err
}

func (r *RideRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(rideColumns...).From("rides r").Join("users u ON u.id = r.creator_id")
}

func (r *RideRepository) queryRides(ctx context.Context, q db.DBTX, b squirrel.SelectBuilder) ([]*models.Ride, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list rides query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing rides: %w", err)
	}
	defer rows.Close()

	rides := []*models.Ride{}
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ride: %w", err)
		}
		rides = append(rides, ride)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadPassengers(ctx, q, rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// loadPassengers fills the passenger list of every ride in one query.
func (r *RideRepository) loadPassengers(ctx context.Context, q db.DBTX, rides []*models.Ride) error {
	if len(rides) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Ride, len(rides))
	ids := make([]int64, 0, len(rides))
	for _, ride := range rides {
		byID[ride.ID] = ride
		ids = append(ids, ride.ID)
	}

	sql, args, err := r.sb.Select("rp.ride_id", "rp.user_id", "u.name", "rp.joined_at").
		From("ride_passengers rp").
		Join("users u ON u.id = rp.user_id").
		Where(squirrel.Eq{"rp.ride_id": ids}).
		OrderBy("rp.joined_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ride passengers query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading ride passengers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rideID int64
		var p models.RidePassenger
		if err := rows.Scan(&rideID, &p.UserID, &p.Name, &p.JoinedAt); err != nil {
			return fmt.Errorf("error scanning ride passenger: %w", err)
		}
		if ride, ok := byID[rideID]; ok {
			ride.Passengers = append(ride.Passengers, p)
		}
	}
	return rows.Err()
}

// Create inserts a ride with every seat available
func (r *RideRepository) Create(ctx context.Context, ride *models.Ride) error {
	sql, args, err := r.sb.Insert("rides").
		Columns("creator_id", "pickup_location", "drop_location", "departure_time", "total_seats",
			"available_seats", "price", "description").
		Values(ride.CreatorID, ride.PickupLocation, ride.DropLocation, ride.DepartureTime, ride.TotalSeats,
			ride.TotalSeats, ride.Price, ride.Description).
		Suffix("RETURNING id, available_seats, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create ride query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&ride.ID, &ride.AvailableSeats, &ride.CreatedAt); err != nil {
		return fmt.Errorf("error creating ride: %w", err)
	}
	if ride.Passengers == nil {
		ride.Passengers = []models.RidePassenger{}
	}
	return nil
}

// GetByID retrieves a ride with its passengers
func (r *RideRepository) GetByID(ctx context.Context, id int64) (*models.Ride, error) {
	rides, err := r.queryRides(ctx, r.db, r.baseSelect().Where(squirrel.Eq{"r.id": id}))
	if err != nil {
		return nil, err
	}
	if len(rides) == 0 {
		return nil, apperrors.ErrRideNotFound
	}
	return rides[0], nil
}

// List returns rides ordered by departure. A nil departingAfter returns
// past rides as well.
func (r *RideRepository) List(ctx context.Context, departingAfter *time.Time) ([]*models.Ride, error) {
	q := r.baseSelect().OrderBy("r.departure_time ASC", "r.id ASC")
	if departingAfter != nil {
		q = q.Where(squirrel.Gt{"r.departure_time": *departingAfter})
	}
	return r.queryRides(ctx, r.db, q)
}

// ListByUser returns rides the user created or joined, latest departure first
func (r *RideRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Ride, error) {
	q := r.baseSelect().
		Where(squirrel.Or{
			squirrel.Eq{"r.creator_id": userID},
			squirrel.Expr("EXISTS (SELECT 1 FROM ride_passengers p WHERE p.ride_id = r.id AND p.user_id = ?)", userID),
		}).
		OrderBy("r.departure_time DESC", "r.id DESC")
	return r.queryRides(ctx, r.db, q)
}

// lockRide loads a ride and its passengers with the ride row locked for the
// rest of the transaction.
func (r *RideRepository) lockRide(ctx context.Context, tx pgx.Tx, id int64) (*models.Ride, error) {
	rides, err := r.queryRides(ctx, tx, r.baseSelect().Where(squirrel.Eq{"r.id": id}).Suffix("FOR UPDATE OF r"))
	if err != nil {
		return nil, err
	}
	if len(rides) == 0 {
		return nil, apperrors.ErrRideNotFound
	}
	return rides[0], nil
}

// Join adds userID as a passenger and takes one seat. check runs against the
// locked ride so concurrent joins cannot oversell seats.
func (r *RideRepository) Join(ctx context.Context, rideID, userID int64, check func(*models.Ride) error) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		ride, err := r.lockRide(ctx, tx, rideID)
		if err != nil {
			return err
		}
		if err := check(ride); err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("ride_passengers").Columns("ride_id", "user_id").Values(rideID, userID).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build join ride query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "") {
				return apperrors.ErrAlreadyJoined
			}
			return fmt.Errorf("error joining ride: %w", err)
		}

		sql, args, err = r.sb.Update("rides").
			Set("available_seats", squirrel.Expr("available_seats - 1")).
			Where(squirrel.Eq{"id": rideID}).
			Where(squirrel.Gt{"available_seats": 0}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build take seat query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error taking seat: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNoSeatsAvailable
		}

		logger.Debug().Int64("rideID", rideID).Int64("userID", userID).Msg("Passenger joined ride")
		return nil
	})
}

// Leave removes userID from the passengers and frees one seat, never
// exceeding the ride's total.
func (r *RideRepository) Leave(ctx context.Context, rideID, userID int64, check func(*models.Ride) error) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		ride, err := r.lockRide(ctx, tx, rideID)
		if err != nil {
			return err
		}
		if err := check(ride); err != nil {
			return err
		}

		sql, args, err := r.sb.Delete("ride_passengers").Where(squirrel.Eq{"ride_id": rideID, "user_id": userID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build leave ride query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error leaving ride: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotAPassenger
		}

		sql, args, err = r.sb.Update("rides").
			Set("available_seats", squirrel.Expr("LEAST(available_seats + 1, total_seats)")).
			Where(squirrel.Eq{"id": rideID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build free seat query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error freeing seat: %w", err)
		}
		return nil
	})
}

// Delete removes a ride and its passenger list
func (r *RideRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("rides").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete ride query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting ride: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRideNotFound
	}
	return nil
}
