package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// ResourceService is what the study material endpoints need
type ResourceService interface {
	List(ctx context.Context, filter dto.MaterialFilter, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id int64) (*models.StudyMaterial, error)
	Upload(ctx context.Context, p appauth.Principal, req *dto.CreateMaterialRequest, file *multipart.FileHeader) (*models.StudyMaterial, error)
	Download(ctx context.Context, id int64) (*dto.DownloadResponse, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error
}

// ResourceController handles shared study materials
type ResourceController struct {
	service ResourceService
}

// NewResourceController creates a new ResourceController
func NewResourceController(service ResourceService) *ResourceController {
	return &ResourceController{service: service}
}

// List returns study materials, newest first
// @Summary List study materials
// @Tags resources
// @Produce json
// @Param branch query string false "Branch"
// @Param semester query int false "Semester 1-8"
// @Param subjectCode query string false "Subject code"
// @Param type query string false "NOTES, PYQ, BOOK, LAB or OTHER"
// @Param search query string false "Matches title or description"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /resources [get]
func (c *ResourceController) List(ctx *gin.Context) {
	var filter dto.MaterialFilter
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

// Get returns one study material
func (c *ResourceController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "study material")
	if !ok {
		return
	}

	material, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, material, "")
}

// Upload shares a study material
// @Summary Upload a study material
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param branch formData string true "Branch"
// @Param semester formData int true "Semester 1-8"
// @Param subjectCode formData string true "Subject code"
// @Param type formData string true "NOTES, PYQ, BOOK, LAB or OTHER"
// @Param file formData file true "Material file"
// @Success 201 {object} dto.APIResponse{data=models.StudyMaterial}
// @Router /resources [post]
func (c *ResourceController) Upload(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	file, err := optionalFile(ctx, "file")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	if file == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrFileRequired)
		return
	}

	material, err := c.service.Upload(ctx.Request.Context(), principal, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, material, "Study material uploaded")
}

// Download counts a download and returns the file location
func (c *ResourceController) Download(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "study material")
	if !ok {
		return
	}

	result, err := c.service.Download(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result, "")
}

// Delete removes a study material. Uploader or admin.
func (c *ResourceController) Delete(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "study material")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Study material deleted")
}
