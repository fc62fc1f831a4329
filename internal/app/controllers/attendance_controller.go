package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/report"
	"github.com/gin-gonic/gin"
)

// AttendanceService is what the subject and attendance endpoints need
type AttendanceService interface {
	Catalog(ctx context.Context) ([]*models.Subject, error)
	CreateSubject(ctx context.Context, p appauth.Principal, req *dto.CreateSubjectRequest) (*models.Subject, error)
	AddSubject(ctx context.Context, p appauth.Principal, subjectID int64) (*dto.SubjectAttendance, error)
	RemoveSubject(ctx context.Context, p appauth.Principal, subjectID int64) error
	TrackedSubjects(ctx context.Context, p appauth.Principal, goal float64) ([]dto.SubjectAttendance, error)
	Summary(ctx context.Context, p appauth.Principal, goal float64) (*dto.AttendanceSummary, error)
	Mark(ctx context.Context, p appauth.Principal, subjectID int64, req *dto.MarkAttendanceRequest) (*models.AttendanceRecord, error)
	Unmark(ctx context.Context, p appauth.Principal, subjectID int64, day string) error
	Calendar(ctx context.Context, p appauth.Principal, subjectID int64, month string) (*dto.AttendanceCalendar, error)
	Export(ctx context.Context, p appauth.Principal, goal float64) (*bytes.Buffer, error)
	Import(ctx context.Context, p appauth.Principal, subjectID int64, r io.Reader) (int, error)
}

// AttendanceController handles the subject catalog and attendance tracking
type AttendanceController struct {
	service AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(service AttendanceService) *AttendanceController {
	return &AttendanceController{service: service}
}

// goalParam reads the optional goal query parameter; zero means the default.
func goalParam(ctx *gin.Context) (float64, bool) {
	raw := ctx.Query("goal")
	if raw == "" {
		return 0, true
	}
	goal, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("goal", "goal must be a number"))
		return 0, false
	}
	return goal, true
}

// Catalog lists every subject
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /subjects [get]
func (c *AttendanceController) Catalog(ctx *gin.Context) {
	subjects, err := c.service.Catalog(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects, "")
}

// CreateSubject adds a subject to the catalog. Admin only.
func (c *AttendanceController) CreateSubject(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	subject, err := c.service.CreateSubject(ctx.Request.Context(), principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, subject, "Subject created")
}

// TrackedSubjects lists the caller's subjects with their stats
// @Summary My subjects
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param goal query number false "Goal percentage, defaults to the configured goal"
// @Success 200 {object} dto.APIResponse{data=[]dto.SubjectAttendance}
// @Router /attendance/subjects [get]
func (c *AttendanceController) TrackedSubjects(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	goal, ok := goalParam(ctx)
	if !ok {
		return
	}

	subjects, err := c.service.TrackedSubjects(ctx.Request.Context(), principal, goal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, subjects, "")
}

// AddSubject starts tracking a subject
// @Summary Add a subject
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddSubjectRequest true "Subject"
// @Success 201 {object} dto.APIResponse{data=dto.SubjectAttendance}
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject already in your list"
// @Router /attendance/subjects [post]
func (c *AttendanceController) AddSubject(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	var req dto.AddSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	added, err := c.service.AddSubject(ctx.Request.Context(), principal, req.SubjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, added, "Subject added")
}

// RemoveSubject stops tracking a subject
func (c *AttendanceController) RemoveSubject(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId", "subject")
	if !ok {
		return
	}

	if err := c.service.RemoveSubject(ctx.Request.Context(), principal, subjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Subject removed")
}

// Mark records PRESENT or ABSENT for a day
// @Summary Mark attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param request body dto.MarkAttendanceRequest true "Mark"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord}
// @Failure 400 {object} dto.ErrorResponse "Future date"
// @Router /attendance/subjects/{subjectId}/records [put]
func (c *AttendanceController) Mark(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId", "subject")
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	record, err := c.service.Mark(ctx.Request.Context(), principal, subjectID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, record, "")
}

// Unmark deletes the mark of a day
func (c *AttendanceController) Unmark(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId", "subject")
	if !ok {
		return
	}

	if err := c.service.Unmark(ctx.Request.Context(), principal, subjectID, ctx.Param("date")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Mark removed")
}

// Calendar lists the marks of one month
func (c *AttendanceController) Calendar(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId", "subject")
	if !ok {
		return
	}

	cal, err := c.service.Calendar(ctx.Request.Context(), principal, subjectID, ctx.Query("month"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, cal, "")
}

// Summary returns per-subject and overall stats
func (c *AttendanceController) Summary(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	goal, ok := goalParam(ctx)
	if !ok {
		return
	}

	summary, err := c.service.Summary(ctx.Request.Context(), principal, goal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, summary, "")
}

// Export downloads the caller's attendance as an xlsx workbook
// @Summary Export attendance
// @Tags attendance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /attendance/export [get]
func (c *AttendanceController) Export(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	goal, ok := goalParam(ctx)
	if !ok {
		return
	}

	buf, err := c.service.Export(ctx.Request.Context(), principal, goal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

// Import upserts Date/Status rows from an uploaded workbook
// @Summary Import attendance
// @Tags attendance
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param file formData file true "xlsx workbook with Date and Status columns"
// @Success 200 {object} dto.APIResponse
// @Router /attendance/subjects/{subjectId}/import [post]
func (c *AttendanceController) Import(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId", "subject")
	if !ok {
		return
	}

	fh, err := optionalFile(ctx, "file")
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	if fh == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrFileRequired)
		return
	}
	file, err := fh.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	n, err := c.service.Import(ctx.Request.Context(), principal, subjectID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, gin.H{"imported": n}, fmt.Sprintf("%d marks imported", n))
}
