package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/campusbeacon/api/internal/pkg/report"
	"github.com/campusbeacon/api/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AttendanceStore persists the subject catalog, enrollments and marks
type AttendanceStore interface {
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	GetSubject(ctx context.Context, id int64) (*models.Subject, error)
	CreateSubject(ctx context.Context, subject *models.Subject) error
	Enroll(ctx context.Context, userID, subjectID int64) error
	Unenroll(ctx context.Context, userID, subjectID int64) error
	IsEnrolled(ctx context.Context, userID, subjectID int64) (bool, error)
	ListEnrolled(ctx context.Context, userID int64) ([]*models.Subject, error)
	UpsertRecord(ctx context.Context, record *models.AttendanceRecord) error
	ImportRecords(ctx context.Context, records []*models.AttendanceRecord) error
	DeleteRecord(ctx context.Context, userID, subjectID int64, date time.Time) error
	ListRecords(ctx context.Context, userID, subjectID int64, from, to time.Time) ([]*models.AttendanceRecord, error)
	Counts(ctx context.Context, userID int64) ([]models.AttendanceCounts, error)
}

// UserLookup resolves a user by ID
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AttendanceService handles subject tracking and attendance statistics
type AttendanceService struct {
	repo        AttendanceStore
	users       UserLookup
	defaultGoal float64
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(repo AttendanceStore, users UserLookup, defaultGoal float64, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		repo:        repo,
		users:       users,
		defaultGoal: defaultGoal,
		logger:      logger,
		now:         time.Now,
	}
}

// ResolveGoal returns goal, or the configured default when goal is zero.
func (s *AttendanceService) ResolveGoal(goal float64) (float64, error) {
	if goal == 0 {
		goal = s.defaultGoal
	}
	if goal <= 0 || goal > 100 {
		return 0, apperrors.NewValidationError("goal", "goal must be greater than 0 and at most 100")
	}
	return goal, nil
}

func (s *AttendanceService) today() time.Time {
	return helpers.StartOfDay(s.now().UTC())
}

func (s *AttendanceService) requireEnrolled(ctx context.Context, userID, subjectID int64) error {
	ok, err := s.repo.IsEnrolled(ctx, userID, subjectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrSubjectNotTracked
	}
	return nil
}

// Catalog lists every subject that can be tracked
func (s *AttendanceService) Catalog(ctx context.Context) ([]*models.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// CreateSubject adds a subject to the catalog. Admin only.
func (s *AttendanceService) CreateSubject(ctx context.Context, p appauth.Principal, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}

	code := validation.NormalizeSubjectCode(req.Code)
	if !validation.IsValidSubjectCode(code) {
		return nil, apperrors.NewValidationError("code", "subject code must look like CS101")
	}

	subject := &models.Subject{Code: code, Name: strings.TrimSpace(req.Name), Credits: req.Credits}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// AddSubject starts tracking a catalog subject for the caller
func (s *AttendanceService) AddSubject(ctx context.Context, p appauth.Principal, subjectID int64) (*dto.SubjectAttendance, error) {
	subject, err := s.repo.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Enroll(ctx, p.UserID, subjectID); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("userID", p.UserID).Str("subject", subject.Code).Msg("Subject added")
	return &dto.SubjectAttendance{Subject: subject, Stats: ComputeStats(0, 0, s.defaultGoal)}, nil
}

// RemoveSubject stops tracking a subject and drops its marks
func (s *AttendanceService) RemoveSubject(ctx context.Context, p appauth.Principal, subjectID int64) error {
	return s.repo.Unenroll(ctx, p.UserID, subjectID)
}

// Summary returns per-subject and overall statistics against goal
func (s *AttendanceService) Summary(ctx context.Context, p appauth.Principal, goal float64) (*dto.AttendanceSummary, error) {
	goal, err := s.ResolveGoal(goal)
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.ListEnrolled(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Counts(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	bySubject := make(map[int64]models.AttendanceCounts, len(counts))
	for _, c := range counts {
		bySubject[c.SubjectID] = c
	}

	summary := &dto.AttendanceSummary{Subjects: make([]dto.SubjectAttendance, 0, len(subjects))}
	var present, total int
	for _, subject := range subjects {
		c := bySubject[subject.ID]
		present += c.Present
		total += c.Total
		summary.Subjects = append(summary.Subjects, dto.SubjectAttendance{
			Subject: subject,
			Stats:   ComputeStats(c.Present, c.Total, goal),
		})
	}
	summary.Overall = ComputeStats(present, total, goal)
	return summary, nil
}

// TrackedSubjects lists the caller's subjects with their statistics
func (s *AttendanceService) TrackedSubjects(ctx context.Context, p appauth.Principal, goal float64) ([]dto.SubjectAttendance, error) {
	summary, err := s.Summary(ctx, p, goal)
	if err != nil {
		return nil, err
	}
	return summary.Subjects, nil
}

// Mark records PRESENT or ABSENT for a day, replacing an earlier mark
func (s *AttendanceService) Mark(ctx context.Context, p appauth.Principal, subjectID int64, req *dto.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date", err.Error())
	}
	if date.After(s.today()) {
		return nil, apperrors.ErrFutureAttendance
	}
	if !req.Status.IsValid() {
		return nil, apperrors.NewValidationError("status", "status must be PRESENT or ABSENT")
	}
	if err := s.requireEnrolled(ctx, p.UserID, subjectID); err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{UserID: p.UserID, SubjectID: subjectID, Date: date, Status: req.Status}
	if err := s.repo.UpsertRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Unmark removes the mark of a day
func (s *AttendanceService) Unmark(ctx context.Context, p appauth.Principal, subjectID int64, day string) error {
	date, err := helpers.ParseDate(day)
	if err != nil {
		return apperrors.NewValidationError("date", err.Error())
	}
	if err := s.requireEnrolled(ctx, p.UserID, subjectID); err != nil {
		return err
	}
	return s.repo.DeleteRecord(ctx, p.UserID, subjectID, date)
}

// Calendar returns the marks of one subject for a YYYY-MM month. An empty
// month means the current one.
func (s *AttendanceService) Calendar(ctx context.Context, p appauth.Principal, subjectID int64, month string) (*dto.AttendanceCalendar, error) {
	if month == "" {
		month = s.today().Format(helpers.MonthLayout)
	}
	start, end, err := helpers.MonthRange(month)
	if err != nil {
		return nil, apperrors.NewValidationError("month", err.Error())
	}
	if err := s.requireEnrolled(ctx, p.UserID, subjectID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListRecords(ctx, p.UserID, subjectID, start, end)
	if err != nil {
		return nil, err
	}

	cal := &dto.AttendanceCalendar{SubjectID: subjectID, Month: month, Days: make([]dto.CalendarDay, 0, len(records))}
	for _, r := range records {
		cal.Days = append(cal.Days, dto.CalendarDay{Date: helpers.FormatDate(r.Date), Status: r.Status})
	}
	return cal, nil
}

// Export renders the caller's attendance as an xlsx workbook
func (s *AttendanceService) Export(ctx context.Context, p appauth.Principal, goal float64) (*bytes.Buffer, error) {
	summary, err := s.Summary(ctx, p, goal)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	sheets := make([]report.SubjectSheet, 0, len(summary.Subjects))
	for _, sa := range summary.Subjects {
		records, err := s.repo.ListRecords(ctx, p.UserID, sa.Subject.ID, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		sheet := report.SubjectSheet{Subject: *sa.Subject, Stats: sa.Stats, Records: make([]models.AttendanceRecord, 0, len(records))}
		for _, r := range records {
			sheet.Records = append(sheet.Records, *r)
		}
		sheets = append(sheets, sheet)
	}

	buf, err := report.AttendanceWorkbook(user.Name, summary.Overall, sheets)
	if err != nil {
		return nil, fmt.Errorf("error building attendance workbook: %w", err)
	}
	return buf, nil
}

// Import upserts the Date/Status rows of an uploaded workbook for one
// subject and returns how many marks were stored
func (s *AttendanceService) Import(ctx context.Context, p appauth.Principal, subjectID int64, r io.Reader) (int, error) {
	if err := s.requireEnrolled(ctx, p.UserID, subjectID); err != nil {
		return 0, err
	}

	rows, err := report.ParseAttendanceSheet(r)
	if err != nil {
		return 0, apperrors.NewBadRequestError(err.Error())
	}
	if len(rows) == 0 {
		return 0, apperrors.NewBadRequestError("the sheet contains no attendance rows")
	}

	today := s.today()
	records := make([]*models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		if row.Date.After(today) {
			return 0, apperrors.Wrap(apperrors.ErrFutureAttendance,
				fmt.Sprintf("row %d: attendance cannot be marked for a future date", row.Line))
		}
		records = append(records, &models.AttendanceRecord{
			UserID:    p.UserID,
			SubjectID: subjectID,
			Date:      row.Date,
			Status:    row.Status,
		})
	}

	if err := s.repo.ImportRecords(ctx, records); err != nil {
		return 0, err
	}

	s.logger.Info().Int64("userID", p.UserID).Int64("subjectID", subjectID).Int("rows", len(records)).Msg("Attendance imported")
	return len(records), nil
}
