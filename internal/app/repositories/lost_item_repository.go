package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var lostItemColumns = []string{
	"li.id", "li.owner_id", "u.name", "li.name", "li.description", "li.location", "li.contact",
	"li.image_path", "li.status", "li.created_at", "li.updated_at",
}

// LostItemRepository handles lost-and-found database operations
type LostItemRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLostItemRepository creates a new LostItemRepository
func NewLostItemRepository(db *pgxpool.Pool) *LostItemRepository {
	return &LostItemRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLostItem(row pgx.Row) (*models.LostItem, error) {
	item := &models.LostItem{}
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.OwnerName, &item.Name, &item.Description, &item.Location,
		&item.Contact, &item.ImagePath, &item.Status, &item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

// applyLostItemFilter adds the search and status conditions of filter to q.
func applyLostItemFilter(q squirrel.SelectBuilder, filter dto.LostItemFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"li.name": pattern},
			squirrel.ILike{"li.description": pattern},
			squirrel.ILike{"li.location": pattern},
		})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"li.status": filter.Status})
	}
	return q
}

// List returns one page of lost items, newest first, and the total match count
func (r *LostItemRepository) List(ctx context.Context, filter dto.LostItemFilter, offset uint64, limit int) ([]*models.LostItem, int64, error) {
	countSQL, countArgs, err := applyLostItemFilter(
		r.sb.Select("COUNT(*)").From("lost_items li"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count lost items query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting lost items: %w", err)
	}

	sql, args, err := applyLostItemFilter(
		r.sb.Select(lostItemColumns...).From("lost_items li").Join("users u ON u.id = li.owner_id"), filter).
		OrderBy("li.created_at DESC", "li.id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list lost items query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing lost items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.LostItem, 0, limit)
	for rows.Next() {
		item, err := scanLostItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning lost item: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetByID retrieves a lost item by ID
func (r *LostItemRepository) GetByID(ctx context.Context, id int64) (*models.LostItem, error) {
	sql, args, err := r.sb.Select(lostItemColumns...).
		From("lost_items li").
		Join("users u ON u.id = li.owner_id").
		Where(squirrel.Eq{"li.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lost item query: %w", err)
	}

	item, err := scanLostItem(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLostItemNotFound
		}
		return nil, fmt.Errorf("error retrieving lost item: %w", err)
	}
	return item, nil
}

// Create inserts a lost item
func (r *LostItemRepository) Create(ctx context.Context, item *models.LostItem) error {
	sql, args, err := r.sb.Insert("lost_items").
		Columns("owner_id", "name", "description", "location", "contact", "image_path", "status").
		Values(item.OwnerID, item.Name, item.Description, item.Location, item.Contact, item.ImagePath, item.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create lost item query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("error creating lost item: %w", err)
	}
	return nil
}

// UpdateStatus changes the status of a lost item
func (r *LostItemRepository) UpdateStatus(ctx context.Context, id int64, status models.LostItemStatus) error {
	sql, args, err := r.sb.Update("lost_items").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update lost item query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating lost item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLostItemNotFound
	}
	return nil
}

// Delete removes a lost item
func (r *LostItemRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("lost_items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete lost item query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting lost item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLostItemNotFound
	}
	return nil
}
