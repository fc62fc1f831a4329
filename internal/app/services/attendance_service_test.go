package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestAttendanceService() (*AttendanceService, *fakeAttendanceStore, *fakeUserStore) {
	store := newFakeAttendanceStore(
		&models.Subject{ID: 1, Code: "CS101", Name: "Programming", Credits: 4},
		&models.Subject{ID: 2, Code: "MA102", Name: "Calculus", Credits: 3},
	)
	users := newFakeUserStore()
	_ = users.Create(context.Background(), &models.User{Name: "Asha", Email: "asha@campus.edu"})
	svc := NewAttendanceService(store, users, 75, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, store, users
}

func mark(t *testing.T, svc *AttendanceService, subjectID int64, day string, status models.AttendanceStatus) {
	t.Helper()
	_, err := svc.Mark(context.Background(), learner, subjectID, &dto.MarkAttendanceRequest{Date: day, Status: status})
	require.NoError(t, err)
}

var learner = appauth.Principal{UserID: 1, Role: models.RoleStudent}

func TestAttendanceService_AddSubjectAppearsInList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()

	_, err := svc.AddSubject(ctx, learner, 1)
	require.NoError(t, err)

	subjects, err := svc.TrackedSubjects(ctx, learner, 0)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "CS101", subjects[0].Subject.Code)

	_, err = svc.AddSubject(ctx, learner, 1)
	assert.ErrorIs(t, err, apperrors.ErrSubjectAlreadyAdded)

	_, err = svc.AddSubject(ctx, learner, 99)
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotFound)
}

func TestAttendanceService_MarkPresentRaisesPercentage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()
	_, err := svc.AddSubject(ctx, learner, 1)
	require.NoError(t, err)

	mark(t, svc, 1, "2025-03-10", models.AttendanceAbsent)
	before, err := svc.Summary(ctx, learner, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, before.Overall.Percentage)

	mark(t, svc, 1, "2025-03-11", models.AttendancePresent)
	after, err := svc.Summary(ctx, learner, 0)
	require.NoError(t, err)
	assert.Greater(t, after.Overall.Percentage, before.Overall.Percentage)
	assert.Equal(t, 50.0, after.Subjects[0].Stats.Percentage)

	cal, err := svc.Calendar(ctx, learner, 1, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, []dto.CalendarDay{
		{Date: "2025-03-10", Status: models.AttendanceAbsent},
		{Date: "2025-03-11", Status: models.AttendancePresent},
	}, cal.Days)
}

func TestAttendanceService_MarkTwiceReplaces(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()
	_, err := svc.AddSubject(ctx, learner, 1)
	require.NoError(t, err)

	mark(t, svc, 1, "2025-03-10", models.AttendanceAbsent)
	mark(t, svc, 1, "2025-03-10", models.AttendancePresent)

	summary, err := svc.Summary(ctx, learner, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Overall.Total)
	assert.Equal(t, 100.0, summary.Overall.Percentage)
}

func TestAttendanceService_MarkRejections(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()

	_, err := svc.Mark(ctx, learner, 1, &dto.MarkAttendanceRequest{Date: "2025-03-10", Status: models.AttendancePresent})
	assert.ErrorIs(t, err, apperrors.ErrSubjectNotTracked)

	_, err = svc.AddSubject(ctx, learner, 1)
	require.NoError(t, err)

	_, err = svc.Mark(ctx, learner, 1, &dto.MarkAttendanceRequest{Date: "2025-03-15", Status: models.AttendancePresent})
	assert.ErrorIs(t, err, apperrors.ErrFutureAttendance)

	_, err = svc.Mark(ctx, learner, 1, &dto.MarkAttendanceRequest{Date: "2025-03-14", Status: models.AttendancePresent})
	assert.NoError(t, err)
}

func TestAttendanceService_ResolveGoal(t *testing.T) {
	svc, _, _ := newTestAttendanceService()

	g, err := svc.ResolveGoal(0)
	require.NoError(t, err)
	assert.Equal(t, 75.0, g)

	_, err = svc.ResolveGoal(120)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.ResolveGoal(-5)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAttendanceService_RemoveSubjectDropsRecords(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()
	_, err := svc.AddSubject(ctx, learner, 1)
	require.NoError(t, err)
	mark(t, svc, 1, "2025-03-10", models.AttendancePresent)

	require.NoError(t, svc.RemoveSubject(ctx, learner, 1))
	summary, err := svc.Summary(ctx, learner, 0)
	require.NoError(t, err)
	assert.Empty(t, summary.Subjects)
	assert.Equal(t, 0, summary.Overall.Total)
}

func TestAttendanceService_CreateSubjectAdminOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()

	_, err := svc.CreateSubject(ctx, learner, &dto.CreateSubjectRequest{Code: "ph103", Name: "Physics"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	subject, err := svc.CreateSubject(ctx, admin, &dto.CreateSubjectRequest{Code: " ph103 ", Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "PH103", subject.Code)
}

func TestAttendanceService_ExportAndImport(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAttendanceService()
	_, err := svc.AddSubject(ctx, learner, 1)
	require.NoError(t, err)
	mark(t, svc, 1, "2025-03-10", models.AttendancePresent)

	buf, err := svc.Export(ctx, learner, 0)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, f.GetSheetList(), 2)
	require.NoError(t, f.Close())

	upload := excelize.NewFile()
	sheet := upload.GetSheetName(0)
	require.NoError(t, upload.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "Status"}))
	require.NoError(t, upload.SetSheetRow(sheet, "A2", &[]interface{}{"2025-03-11", "PRESENT"}))
	require.NoError(t, upload.SetSheetRow(sheet, "A3", &[]interface{}{"2025-03-12", "ABSENT"}))
	var in bytes.Buffer
	require.NoError(t, upload.Write(&in))

	n, err := svc.Import(ctx, learner, 1, &in)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	summary, err := svc.Summary(ctx, learner, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Overall.Total)
	assert.Equal(t, 2, summary.Overall.Present)
}
