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

var itemColumns = []string{
	"i.id", "i.seller_id", "u.name", "i.name", "i.description", "i.price", "i.condition",
	"i.category", "i.image_path", "i.is_sold", "i.created_at", "i.updated_at",
}

// ItemRepository handles marketplace database operations
type ItemRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanItem(row pgx.Row) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(
		&item.ID, &item.SellerID, &item.SellerName, &item.Name, &item.Description, &item.Price,
		&item.Condition, &item.Category, &item.ImagePath, &item.IsSold, &item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func applyItemFilter(q squirrel.SelectBuilder, filter dto.ItemFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.description": pattern},
		})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Expr("LOWER(i.category) = LOWER(?)", filter.Category))
	}
	if filter.MinPrice != nil {
		q = q.Where(squirrel.GtOrEq{"i.price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		q = q.Where(squirrel.LtOrEq{"i.price": *filter.MaxPrice})
	}
	if !filter.IncludeSold {
		q = q.Where(squirrel.Eq{"i.is_sold": false})
	}
	if filter.SellerID > 0 {
		q = q.Where(squirrel.Eq{"i.seller_id": filter.SellerID})
	}
	return q
}

// List returns one page of marketplace items, newest first, and the total match count
func (r *ItemRepository) List(ctx context.Context, filter dto.ItemFilter, offset uint64, limit int) ([]*models.Item, int64, error) {
	countSQL, countArgs, err := applyItemFilter(r.sb.Select("COUNT(*)").From("items i"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count items query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting items: %w", err)
	}

	sql, args, err := applyItemFilter(
		r.sb.Select(itemColumns...).From("items i").Join("users u ON u.id = i.seller_id"), filter).
		OrderBy("i.created_at DESC", "i.id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list items query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	sql, args, err := r.sb.Select(itemColumns...).
		From("items i").
		Join("users u ON u.id = i.seller_id").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get item query: %w", err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("error retrieving item: %w", err)
	}
	return item, nil
}

// Create inserts a marketplace item
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	sql, args, err := r.sb.Insert("items").
		Columns("seller_id", "name", "description", "price", "condition", "category", "image_path").
		Values(item.SellerID, item.Name, item.Description, item.Price, item.Condition, item.Category, item.ImagePath).
		Suffix("RETURNING id, is_sold, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create item query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.IsSold, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("error creating item: %w", err)
	}
	return nil
}

// Update saves the editable fields of an item
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	sql, args, err := r.sb.Update("items").
		Set("name", item.Name).
		Set("description", item.Description).
		Set("price", item.Price).
		Set("condition", item.Condition).
		Set("category", item.Category).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": item.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update item query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&item.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrItemNotFound
		}
		return fmt.Errorf("error updating item: %w", err)
	}
	return nil
}

// SetSold sets the sold flag of an item
func (r *ItemRepository) SetSold(ctx context.Context, id int64, sold bool) error {
	sql, args, err := r.sb.Update("items").
		Set("is_sold", sold).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark sold query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking item sold: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}

// Delete removes an item
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete item query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrItemNotFound
	}
	return nil
}
