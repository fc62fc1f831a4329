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

// MarketplaceService is what the marketplace endpoints need
type MarketplaceService interface {
	List(ctx context.Context, filter dto.ItemFilter, page, size int) (*dto.PaginatedResponse, error)
	MyItems(ctx context.Context, p appauth.Principal, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.CreateItemRequest, image *multipart.FileHeader) (*models.Item, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateItemRequest) (*models.Item, error)
	MarkSold(ctx context.Context, p appauth.Principal, id int64, sold bool) (*models.Item, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

// MarketplaceController handles buy/sell listings
type MarketplaceController struct {
	service MarketplaceService
}

// NewMarketplaceController creates a new MarketplaceController
func NewMarketplaceController(service MarketplaceService) *MarketplaceController {
	return &MarketplaceController{service: service}
}

// List returns marketplace items
// @Summary List marketplace items
// @Tags marketplace
// @Produce json
// @Param search query string false "Matches name or description"
// @Param category query string false "Category"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param includeSold query bool false "Include sold items"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /marketplace/items [get]
func (c *MarketplaceController) List(ctx *gin.Context) {
	var filter dto.ItemFilter
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

// MyItems returns the caller's listings including sold ones
func (c *MarketplaceController) MyItems(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.service.MyItems(ctx.Request.Context(), principal, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result, "")
}

// Get returns one item
func (c *MarketplaceController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "item")
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

// Create lists an item for sale
// @Summary Sell an item
// @Tags marketplace
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file false "Photo"
// @Success 201 {object} dto.APIResponse{data=models.Item}
// @Router /marketplace/items [post]
func (c *MarketplaceController) Create(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
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
	respond(ctx, http.StatusCreated, item, "Item listed")
}

// Update edits an item. Seller only.
func (c *MarketplaceController) Update(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "item")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	item, err := c.service.Update(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, item, "")
}

// MarkSold sets or clears the sold flag. Seller only.
func (c *MarketplaceController) MarkSold(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "item")
	if !ok {
		return
	}

	var req dto.MarkSoldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	item, err := c.service.MarkSold(ctx.Request.Context(), principal, id, *req.IsSold)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, item, "")
}

// Delete removes an item. Seller or admin.
func (c *MarketplaceController) Delete(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "item")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Item deleted")
}
