package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/db"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttendanceRepository handles the subject catalog, enrollments and
// attendance marks
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AttendanceRepository) querySubjects(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Subject, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Credits, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// ListSubjects returns the catalog ordered by code
func (r *AttendanceRepository) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return r.querySubjects(ctx, r.sb.Select("id", "code", "name", "credits", "created_at").
		From("subjects").
		OrderBy("code ASC"))
}

// GetSubject retrieves a catalog subject by ID
func (r *AttendanceRepository) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	subjects, err := r.querySubjects(ctx, r.sb.Select("id", "code", "name", "credits", "created_at").
		From("subjects").
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, apperrors.ErrSubjectNotFound
	}
	return subjects[0], nil
}

// CreateSubject adds a subject to the catalog
func (r *AttendanceRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Insert("subjects").
		Columns("code", "name", "credits").
		Values(subject.Code, subject.Name, subject.Credits).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID, &subject.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "subjects_code_key") {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

// Enroll adds a subject to the user's tracked list
func (r *AttendanceRepository) Enroll(ctx context.Context, userID, subjectID int64) error {
	sql, args, err := r.sb.Insert("user_subjects").Columns("user_id", "subject_id").Values(userID, subjectID).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enroll query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "user_subjects_pkey") {
			return apperrors.ErrSubjectAlreadyAdded
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error enrolling in subject: %w", err)
	}
	return nil
}

// Unenroll removes a tracked subject; its marks go with it
func (r *AttendanceRepository) Unenroll(ctx context.Context, userID, subjectID int64) error {
	sql, args, err := r.sb.Delete("user_subjects").Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unenroll query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotTracked
	}
	return nil
}

// IsEnrolled reports whether the user tracks the subject
func (r *AttendanceRepository) IsEnrolled(ctx context.Context, userID, subjectID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("user_subjects").
		Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// ListEnrolled returns the user's tracked subjects in the order they were added
func (r *AttendanceRepository) ListEnrolled(ctx context.Context, userID int64) ([]*models.Subject, error) {
	return r.querySubjects(ctx, r.sb.Select("s.id", "s.code", "s.name", "s.credits", "s.created_at").
		From("user_subjects us").
		Join("subjects s ON s.id = us.subject_id").
		Where(squirrel.Eq{"us.user_id": userID}).
		OrderBy("us.created_at ASC", "s.code ASC"))
}

func (r *AttendanceRepository) upsertRecordQuery(record *models.AttendanceRecord) (string, []interface{}, error) {
	return r.sb.Insert("attendance_records").
		Columns("user_id", "subject_id", "date", "status").
		Values(record.UserID, record.SubjectID, record.Date, record.Status).
		Suffix("ON CONFLICT ON CONSTRAINT attendance_records_user_subject_date_key DO UPDATE SET status = EXCLUDED.status RETURNING id, created_at").
		ToSql()
}

// UpsertRecord stores the mark for a day, replacing an earlier mark
func (r *AttendanceRepository) UpsertRecord(ctx context.Context, record *models.AttendanceRecord) error {
	sql, args, err := r.upsertRecordQuery(record)
	if err != nil {
		return fmt.Errorf("failed to build upsert attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&record.ID, &record.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrSubjectNotTracked
		}
		return fmt.Errorf("error saving attendance: %w", err)
	}
	return nil
}

// ImportRecords upserts a batch of marks atomically
func (r *AttendanceRepository) ImportRecords(ctx context.Context, records []*models.AttendanceRecord) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, record := range records {
			sql, args, err := r.upsertRecordQuery(record)
			if err != nil {
				return fmt.Errorf("failed to build upsert attendance query: %w", err)
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&record.ID, &record.CreatedAt); err != nil {
				if dberrors.IsForeignKeyError(err) {
					return apperrors.ErrSubjectNotTracked
				}
				return fmt.Errorf("error importing attendance: %w", err)
			}
		}
		return nil
	})
}

// DeleteRecord removes the mark for a day
func (r *AttendanceRepository) DeleteRecord(ctx context.Context, userID, subjectID int64, date time.Time) error {
	sql, args, err := r.sb.Delete("attendance_records").
		Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID, "date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete attendance query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting attendance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("attendance record not found")
	}
	return nil
}

// ListRecords returns the marks of one subject in [from, to), oldest first.
// Zero bounds are ignored.
func (r *AttendanceRepository) ListRecords(ctx context.Context, userID, subjectID int64, from, to time.Time) ([]*models.AttendanceRecord, error) {
	q := r.sb.Select("id", "user_id", "subject_id", "date", "status", "created_at").
		From("attendance_records").
		Where(squirrel.Eq{"user_id": userID, "subject_id": subjectID}).
		OrderBy("date ASC")
	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": from})
	}
	if !to.IsZero() {
		q = q.Where(squirrel.Lt{"date": to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	records := []*models.AttendanceRecord{}
	for rows.Next() {
		rec := &models.AttendanceRecord{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SubjectID, &rec.Date, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Counts aggregates the user's marks per tracked subject
func (r *AttendanceRepository) Counts(ctx context.Context, userID int64) ([]models.AttendanceCounts, error) {
	sql, args, err := r.sb.Select(
		"subject_id",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'PRESENT')",
	).
		From("attendance_records").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("subject_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance: %w", err)
	}
	defer rows.Close()

	counts := []models.AttendanceCounts{}
	for rows.Next() {
		var c models.AttendanceCounts
		if err := rows.Scan(&c.SubjectID, &c.Total, &c.Present); err != nil {
			return nil, fmt.Errorf("error scanning attendance counts: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
