package dto

import "time"

// RideDirection selects which location a ride search applies to
type RideDirection string

const (
	DirectionAny  RideDirection = "ANY"
	DirectionFrom RideDirection = "FROM"
	DirectionTo   RideDirection = "TO"
)

// RideSortField is the column a ride list is ordered by
type RideSortField string

const (
	SortByDeparture RideSortField = "departure"
	SortByPrice     RideSortField = "price"
	SortBySeats     RideSortField = "seats"
)

// CreateRideRequest offers a new ride
type CreateRideRequest struct {
	PickupLocation string    `json:"pickupLocation" binding:"required,max=200"`
	DropLocation   string    `json:"dropLocation" binding:"required,max=200"`
	DepartureTime  time.Time `json:"departureTime" binding:"required"`
	TotalSeats     int       `json:"totalSeats" binding:"required,min=1,max=10"`
	Price          float64   `json:"price" binding:"gte=0"`
	Description    string    `json:"description" binding:"max=1000"`
}

// RideFilter carries the ride list query parameters
type RideFilter struct {
	Search      string        `form:"search"`
	Direction   RideDirection `form:"direction" binding:"omitempty,oneof=ANY FROM TO"`
	DateFrom    string        `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo      string        `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	MinSeats    int           `form:"minSeats" binding:"omitempty,min=0"`
	MaxPrice    *float64      `form:"maxPrice" binding:"omitempty,gte=0"`
	SortBy      RideSortField `form:"sortBy" binding:"omitempty,oneof=departure price seats"`
	Order       string        `form:"order" binding:"omitempty,oneof=asc desc"`
	IncludePast bool          `form:"includePast"`
}
