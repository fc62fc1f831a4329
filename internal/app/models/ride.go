package models

import "time"

// Ride is a shared ride offered by a student
type Ride struct {
	ID             int64           `json:"id" db:"id"`
	CreatorID      int64           `json:"creatorId" db:"creator_id"`
	CreatorName    string          `json:"creatorName,omitempty"`
	PickupLocation string          `json:"pickupLocation" db:"pickup_location"`
	DropLocation   string          `json:"dropLocation" db:"drop_location"`
	DepartureTime  time.Time       `json:"departureTime" db:"departure_time"`
	TotalSeats     int             `json:"totalSeats" db:"total_seats"`
	AvailableSeats int             `json:"availableSeats" db:"available_seats"`
	Price          float64         `json:"price" db:"price"`
	Description    string          `json:"description" db:"description"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	Passengers     []RidePassenger `json:"passengers"`
}

// RidePassenger is a user who joined a ride
type RidePassenger struct {
	UserID   int64     `json:"userId" db:"user_id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}

// HasPassenger reports whether userID has joined the ride.
func (r *Ride) HasPassenger(userID int64) bool {
	for _, p := range r.Passengers {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
