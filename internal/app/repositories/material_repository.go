package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var materialColumns = []string{
	"m.id", "m.uploader_id", "u.name", "m.title", "m.description", "m.branch", "m.semester",
	"m.subject_code", "m.type", "m.file_path", "m.file_name", "m.file_size", "m.downloads", "m.created_at",
}

// MaterialRepository handles study material database operations
type MaterialRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMaterialRepository creates a new MaterialRepository
func NewMaterialRepository(db *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanMaterial(row pgx.Row) (*models.StudyMaterial, error) {
	m := &models.StudyMaterial{}
	err := row.Scan(&m.ID, &m.UploaderID, &m.UploaderName, &m.Title, &m.Description, &m.Branch, &m.Semester,
		&m.SubjectCode, &m.Type, &m.FilePath, &m.FileName, &m.FileSize, &m.Downloads, &m.CreatedAt)
	return m, err
}

func applyMaterialFilter(q squirrel.SelectBuilder, filter dto.MaterialFilter) squirrel.SelectBuilder {
	if filter.Branch != "" {
		q = q.Where(squirrel.Expr("LOWER(m.branch) = LOWER(?)", filter.Branch))
	}
	if filter.Semester > 0 {
		q = q.Where(squirrel.Eq{"m.semester": filter.Semester})
	}
	if filter.SubjectCode != "" {
		q = q.Where(squirrel.Eq{"m.subject_code": strings.ToUpper(strings.TrimSpace(filter.SubjectCode))})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"m.type": filter.Type})
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"m.title": pattern},
			squirrel.ILike{"m.description": pattern},
		})
	}
	return q
}

// List returns one page of study materials, newest first, and the total match count
func (r *MaterialRepository) List(ctx context.Context, filter dto.MaterialFilter, offset uint64, limit int) ([]*models.StudyMaterial, int64, error) {
	countSQL, countArgs, err := applyMaterialFilter(r.sb.Select("COUNT(*)").From("study_materials m"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count materials query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting materials: %w", err)
	}

	sql, args, err := applyMaterialFilter(
		r.sb.Select(materialColumns...).From("study_materials m").Join("users u ON u.id = m.uploader_id"), filter).
		OrderBy("m.created_at DESC", "m.id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list materials query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing materials: %w", err)
	}
	defer rows.Close()

	materials := make([]*models.StudyMaterial, 0, limit)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, total, rows.Err()
}

// GetByID retrieves a study material by ID
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.StudyMaterial, error) {
	sql, args, err := r.sb.Select(materialColumns...).
		From("study_materials m").
		Join("users u ON u.id = m.uploader_id").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get material query: %w", err)
	}

	m, err := scanMaterial(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("error retrieving material: %w", err)
	}
	return m, nil
}

// Create inserts a study material
func (r *MaterialRepository) Create(ctx context.Context, m *models.StudyMaterial) error {
	sql, args, err := r.sb.Insert("study_materials").
		Columns("uploader_id", "title", "description", "branch", "semester", "subject_code", "type",
			"file_path", "file_name", "file_size").
		Values(m.UploaderID, m.Title, m.Description, m.Branch, m.Semester, m.SubjectCode, m.Type,
			m.FilePath, m.FileName, m.FileSize).
		Suffix("RETURNING id, downloads, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create material query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.Downloads, &m.CreatedAt); err != nil {
		return fmt.Errorf("error creating material: %w", err)
	}
	return nil
}

// IncrementDownloads bumps the download counter and returns the new value
func (r *MaterialRepository) IncrementDownloads(ctx context.Context, id int64) (int64, error) {
	sql, args, err := r.sb.Update("study_materials").
		Set("downloads", squirrel.Expr("downloads + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING downloads").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build download query: %w", err)
	}

	var downloads int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&downloads); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.ErrMaterialNotFound
		}
		return 0, fmt.Errorf("error counting download: %w", err)
	}
	return downloads, nil
}

// Delete removes a study material
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("study_materials").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete material query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting material: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}
