package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// LostFoundService is what the lost-and-found endpoints need
type LostFoundService interface {
	List(ctx context.Context, filter dto.LostItemFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*models.LostItem, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateLostItemRequest, image *multipart.FileHeader) (*models.LostItem, error)
	UpdateStatus(ctx context.Context, p appauth.Principal, id int64, status models.LostItemStatus) (*models.LostItem, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

// LostFoundController handles lost-and-found listings
type LostFoundController struct {
	service LostFoundService
}

// NewLostFoundController creates a new LostFoundController
func NewLostFoundController(service LostFoundService) *LostFoundController {
	return &LostFoundController{service: service}
}

// List returns lost items, newest first
// @Summary List lost items
// @Tags lost-and-found
// @Produce json
// @Param search query string false "Matches name, description or location"
// @Param status query string false "LOST, FOUND or CLAIMED"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /lost-and-found/lost-items [get]
func (c *LostFoundController) List(ctx *gin.Context) {
	var filter dto.LostItemFilter
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

// Get returns one lost item
func (c *LostFoundController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lost item")
	if !ok {
		return
	}

	item, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, item, "")
}

// Create posts a lost item
// @Summary Post a lost item
// @Tags lost-and-found
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file false "Photo"
// @Success 201 {object} dto.APIResponse{data=models.LostItem}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /lost-and-found/lost-items [post]
func (c *LostFoundController) Create(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateLostItemRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	image, err := optionalFile(ctx, "image")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	item, err := c.service.Create(ctx.Request.Context(), principal, &req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, item, "Lost item posted")
}

// UpdateStatus changes the status of a lost item
func (c *LostFoundController) UpdateStatus(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "lost item")
	if !ok {
		return
	}

	var req dto.UpdateLostItemStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	item, err := c.service.UpdateStatus(ctx.Request.Context(), principal, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, item, "")
}

// Delete removes a lost item
// @Summary Delete a lost item
// @Description Only the owner may delete a lost item
// @Tags lost-and-found
// @Security BearerAuth
// @Param id path int true "Lost item ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Lost item not found"
// @Router /lost-and-found/lost-items/{id} [delete]
func (c *LostFoundController) Delete(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "lost item")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Lost item deleted")
}
