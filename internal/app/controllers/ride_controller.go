package controllers

import (
	"context"
	"net/http"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// RideService is what the ride endpoints need
type RideService interface {
	List(ctx context.Context, filter dto.RideFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*models.Ride, error)
	Mine(ctx context.Context, p appauth.Principal) ([]*models.Ride, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateRideRequest) (*models.Ride, error)
	Join(ctx context.Context, p appauth.Principal, rideID int64) (*models.Ride, error)
	Leave(ctx context.Context, p appauth.Principal, rideID int64) (*models.Ride, error)
	Delete(ctx context.Context, p appauth.Principal, rideID int64) error
}

// RideController handles ride sharing
type RideController struct {
	service RideService
}

// NewRideController creates a new RideController
func NewRideController(service RideService) *RideController {
	return &RideController{service: service}
}

// List returns rides matching the query
// @Summary List rides
// @Tags rides
// @Produce json
// @Param search query string false "Case-insensitive substring"
// @Param direction query string false "ANY, FROM or TO"
// @Param dateFrom query string false "YYYY-MM-DD, inclusive"
// @Param dateTo query string false "YYYY-MM-DD, inclusive"
// @Param minSeats query int false "Minimum available seats"
// @Param maxPrice query number false "Maximum price"
// @Param sortBy query string false "departure, price or seats"
// @Param order query string false "asc or desc"
// @Param includePast query bool false "Include departed rides"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Ride}}
// @Router /rides [get]
func (c *RideController) List(ctx *gin.Context) {
	var filter dto.RideFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.service.List(ctx.Request.Context(), filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result, "")
}

// Mine returns rides the caller created or joined
func (c *RideController) Mine(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	rides, err := c.service.Mine(ctx.Request.Context(), principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, rides, "")
}

// Get returns one ride with its passengers
func (c *RideController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "ride")
	if !ok {
		return
	}

	ride, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ride, "")
}

// Create offers a ride
// @Summary Offer a ride
// @Tags rides
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRideRequest true "Ride"
// @Success 201 {object} dto.APIResponse{data=models.Ride}
// @Failure 400 {object} dto.ErrorResponse "Departure in the past or invalid seats"
// @Router /rides [post]
func (c *RideController) Create(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateRideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	ride, err := c.service.Create(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, ride, "Ride created")
}

// Join takes a seat
// @Summary Join a ride
// @Tags rides
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ride ID"
// @Success 200 {object} dto.APIResponse{data=models.Ride}
// @Failure 400 {object} dto.ErrorResponse "Own ride"
// @Failure 409 {object} dto.ErrorResponse "No Seats Available, already joined or departed"
// @Router /rides/{id}/join [post]
func (c *RideController) Join(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "ride")
	if !ok {
		return
	}

	ride, err := c.service.Join(ctx.Request.Context(), principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ride, "Joined ride")
}

// Leave gives a seat back
func (c *RideController) Leave(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "ride")
	if !ok {
		return
	}

	ride, err := c.service.Leave(ctx.Request.Context(), principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, ride, "Left ride")
}

// Delete cancels a ride. Creator only.
func (c *RideController) Delete(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "ride")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Ride deleted")
}
