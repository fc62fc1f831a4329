package controllers

import (
	"context"
	"net/http"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// HostelService is what the hostel endpoints need
type HostelService interface {
	List(ctx context.Context) ([]*models.Hostel, error)
	Get(ctx context.Context, id int64) (*models.Hostel, error)
	Create(ctx context.Context, p appauth.Principal, req *dto.HostelRequest) (*models.Hostel, error)
	Update(ctx context.Context, p appauth.Principal, id int64, req *dto.HostelRequest) (*models.Hostel, error)
	Delete(ctx context.Context, p appauth.Principal, id int64) error

	Officials(ctx context.Context, hostelID int64) ([]*models.Official, error)
	AddOfficial(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.OfficialRequest) (*models.Official, error)
	RemoveOfficial(ctx context.Context, p appauth.Principal, hostelID, id int64) error

	Notifications(ctx context.Context, hostelID int64) ([]*models.Notification, error)
	PostNotification(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.NotificationRequest) (*models.Notification, error)
	RemoveNotification(ctx context.Context, p appauth.Principal, hostelID, id int64) error

	Menu(ctx context.Context, hostelID int64) ([]dto.DayMenu, error)
	UpdateMenu(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.UpdateMenuRequest) ([]dto.DayMenu, error)

	FileComplaint(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.CreateComplaintRequest) (*models.Complaint, error)
	MyComplaints(ctx context.Context, p appauth.Principal) ([]*models.Complaint, error)
	HostelComplaints(ctx context.Context, p appauth.Principal, hostelID int64, status models.ComplaintStatus) ([]*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateComplaintStatusRequest) (*models.Complaint, error)
}

// HostelController handles hostels, officials, notices, menus and complaints
type HostelController struct {
	service HostelService
}

// NewHostelController creates a new HostelController
func NewHostelController(service HostelService) *HostelController {
	return &HostelController{service: service}
}

// List returns all hostels
// @Summary List hostels
// @Tags hostels
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Hostel}
// @Router /hostels [get]
func (c *HostelController) List(ctx *gin.Context) {
	hostels, err := c.service.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, hostels, "")
}

// Get returns one hostel
func (c *HostelController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	hostel, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, hostel, "")
}

// Create adds a hostel
func (c *HostelController) Create(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	var req dto.HostelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	hostel, err := c.service.Create(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, hostel, "Hostel created")
}

// Update edits a hostel
func (c *HostelController) Update(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	var req dto.HostelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	hostel, err := c.service.Update(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, hostel, "")
}

// Delete removes a hostel without residents
// @Summary Delete a hostel
// @Tags hostels
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Hostel has residents"
// @Router /hostels/{id} [delete]
func (c *HostelController) Delete(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	if err := c.service.Delete(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Hostel deleted")
}

// Officials lists the staff contacts of a hostel
func (c *HostelController) Officials(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	officials, err := c.service.Officials(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, officials, "")
}

// AddOfficial adds a staff contact
func (c *HostelController) AddOfficial(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	var req dto.OfficialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	official, err := c.service.AddOfficial(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, official, "")
}

// RemoveOfficial deletes a staff contact
func (c *HostelController) RemoveOfficial(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	officialID, ok := parseIDParam(ctx, "officialId", "official")
	if !ok {
		return
	}
	if err := c.service.RemoveOfficial(ctx.Request.Context(), principal, id, officialID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Official removed")
}

// Notifications lists a hostel's notices
func (c *HostelController) Notifications(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	notifications, err := c.service.Notifications(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, notifications, "")
}

// PostNotification posts a notice
func (c *HostelController) PostNotification(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	var req dto.NotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	n, err := c.service.PostNotification(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, n, "")
}

// RemoveNotification deletes a notice
func (c *HostelController) RemoveNotification(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	notificationID, ok := parseIDParam(ctx, "notificationId", "notification")
	if !ok {
		return
	}
	if err := c.service.RemoveNotification(ctx.Request.Context(), principal, id, notificationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Notification removed")
}

// Menu returns the weekly mess menu
// @Summary Mess menu
// @Tags hostels
// @Produce json
// @Param id path int true "Hostel ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.DayMenu}
// @Router /hostels/{id}/menu [get]
func (c *HostelController) Menu(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	menu, err := c.service.Menu(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, menu, "")
}

// UpdateMenu replaces the weekly mess menu
func (c *HostelController) UpdateMenu(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	var req dto.UpdateMenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	menu, err := c.service.UpdateMenu(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, menu, "Menu updated")
}

// FileComplaint files a complaint against a hostel
// @Summary File a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Hostel ID"
// @Param request body dto.CreateComplaintRequest true "Complaint"
// @Success 201 {object} dto.APIResponse{data=models.Complaint}
// @Router /hostels/{id}/complaints [post]
func (c *HostelController) FileComplaint(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	var req dto.CreateComplaintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	complaint, err := c.service.FileComplaint(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, complaint, "Complaint filed")
}

// MyComplaints lists the caller's complaints
func (c *HostelController) MyComplaints(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	complaints, err := c.service.MyComplaints(ctx.Request.Context(), principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, complaints, "")
}

// HostelComplaints lists a hostel's complaints
func (c *HostelController) HostelComplaints(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "hostel")
	if !ok {
		return
	}
	status := models.ComplaintStatus(ctx.Query("status"))
	if status != "" && !status.IsValid() {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("status", "unknown complaint status"))
		return
	}
	complaints, err := c.service.HostelComplaints(ctx.Request.Context(), principal, id, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, complaints, "")
}

// UpdateComplaintStatus moves a complaint along its workflow
// @Summary Update complaint status
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body dto.UpdateComplaintStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Complaint}
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Router /complaints/{id}/status [patch]
func (c *HostelController) UpdateComplaintStatus(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "complaint")
	if !ok {
		return
	}
	var req dto.UpdateComplaintStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	complaint, err := c.service.UpdateComplaintStatus(ctx.Request.Context(), principal, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, complaint, "")
}
