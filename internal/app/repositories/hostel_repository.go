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

var complaintColumns = []string{
	"id", "hostel_id", "user_id", "category", "title", "description", "status", "response",
	"created_at", "updated_at",
}

// HostelRepository handles hostels and their officials, notices,
// complaints and mess menu
type HostelRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewHostelRepository creates a new HostelRepository
func NewHostelRepository(db *pgxpool.Pool) *HostelRepository {
	return &HostelRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *HostelRepository) exec(ctx context.Context, b squirrel.Sqlizer, notFound error) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build hostel query: %w", err)
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing hostel query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

// List returns every hostel ordered by name
func (r *HostelRepository) List(ctx context.Context) ([]*models.Hostel, error) {
	sql, args, err := r.sb.Select("id", "name", "type", "warden_name", "capacity", "created_at").
		From("hostels").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list hostels query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing hostels: %w", err)
	}
	defer rows.Close()

	hostels := []*models.Hostel{}
	for rows.Next() {
		h := &models.Hostel{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Type, &h.WardenName, &h.Capacity, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning hostel: %w", err)
		}
		hostels = append(hostels, h)
	}
	return hostels, rows.Err()
}

// GetByID retrieves a hostel by ID
func (r *HostelRepository) GetByID(ctx context.Context, id int64) (*models.Hostel, error) {
	sql, args, err := r.sb.Select("id", "name", "type", "warden_name", "capacity", "created_at").
		From("hostels").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get hostel query: %w", err)
	}

	h := &models.Hostel{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&h.ID, &h.Name, &h.Type, &h.WardenName, &h.Capacity, &h.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrHostelNotFound
		}
		return nil, fmt.Errorf("error retrieving hostel: %w", err)
	}
	return h, nil
}

// Create inserts a hostel
func (r *HostelRepository) Create(ctx context.Context, hostel *models.Hostel) error {
	sql, args, err := r.sb.Insert("hostels").
		Columns("name", "type", "warden_name", "capacity").
		Values(hostel.Name, hostel.Type, hostel.WardenName, hostel.Capacity).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create hostel query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&hostel.ID, &hostel.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "hostels_name_key") {
			return apperrors.ErrHostelAlreadyExists
		}
		return fmt.Errorf("error creating hostel: %w", err)
	}
	return nil
}

// Update saves a hostel's fields
func (r *HostelRepository) Update(ctx context.Context, hostel *models.Hostel) error {
	err := r.exec(ctx, r.sb.Update("hostels").
		Set("name", hostel.Name).
		Set("type", hostel.Type).
		Set("warden_name", hostel.WardenName).
		Set("capacity", hostel.Capacity).
		Where(squirrel.Eq{"id": hostel.ID}), apperrors.ErrHostelNotFound)
	if err != nil && dberrors.IsDuplicateConstraintError(err, "hostels_name_key") {
		return apperrors.ErrHostelAlreadyExists
	}
	return err
}

// Delete removes a hostel. Users still assigned to it block the delete.
func (r *HostelRepository) Delete(ctx context.Context, id int64) error {
	err := r.exec(ctx, r.sb.Delete("hostels").Where(squirrel.Eq{"id": id}), apperrors.ErrHostelNotFound)
	if err != nil && dberrors.IsForeignKeyError(err) {
		return apperrors.ErrHostelHasResidents
	}
	return err
}

// ListOfficials returns the officials of a hostel
func (r *HostelRepository) ListOfficials(ctx context.Context, hostelID int64) ([]*models.Official, error) {
	sql, args, err := r.sb.Select("id", "hostel_id", "name", "designation", "phone", "email").
		From("hostel_officials").
		Where(squirrel.Eq{"hostel_id": hostelID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list officials query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing officials: %w", err)
	}
	defer rows.Close()

	officials := []*models.Official{}
	for rows.Next() {
		o := &models.Official{}
		if err := rows.Scan(&o.ID, &o.HostelID, &o.Name, &o.Designation, &o.Phone, &o.Email); err != nil {
			return nil, fmt.Errorf("error scanning official: %w", err)
		}
		officials = append(officials, o)
	}
	return officials, rows.Err()
}

// CreateOfficial adds an official to a hostel
func (r *HostelRepository) CreateOfficial(ctx context.Context, official *models.Official) error {
	sql, args, err := r.sb.Insert("hostel_officials").
		Columns("hostel_id", "name", "designation", "phone", "email").
		Values(official.HostelID, official.Name, official.Designation, official.Phone, official.Email).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create official query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&official.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrHostelNotFound
		}
		return fmt.Errorf("error creating official: %w", err)
	}
	return nil
}

// DeleteOfficial removes an official of a hostel
func (r *HostelRepository) DeleteOfficial(ctx context.Context, hostelID, id int64) error {
	return r.exec(ctx, r.sb.Delete("hostel_officials").Where(squirrel.Eq{"id": id, "hostel_id": hostelID}),
		apperrors.NewResourceNotFoundError("official not found"))
}

// ListNotifications returns the notices of a hostel, newest first
func (r *HostelRepository) ListNotifications(ctx context.Context, hostelID int64) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "hostel_id", "title", "body", "created_by", "created_at").
		From("hostel_notifications").
		Where(squirrel.Eq{"hostel_id": hostelID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.HostelID, &n.Title, &n.Body, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CreateNotification posts a notice to a hostel
func (r *HostelRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("hostel_notifications").
		Columns("hostel_id", "title", "body", "created_by").
		Values(n.HostelID, n.Title, n.Body, n.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrHostelNotFound
		}
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// DeleteNotification removes a notice of a hostel
func (r *HostelRepository) DeleteNotification(ctx context.Context, hostelID, id int64) error {
	return r.exec(ctx, r.sb.Delete("hostel_notifications").Where(squirrel.Eq{"id": id, "hostel_id": hostelID}),
		apperrors.NewResourceNotFoundError("notification not found"))
}

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	c := &models.Complaint{}
	err := row.Scan(&c.ID, &c.HostelID, &c.UserID, &c.Category, &c.Title, &c.Description, &c.Status,
		&c.Response, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *HostelRepository) queryComplaints(ctx context.Context, where squirrel.Sqlizer) ([]*models.Complaint, error) {
	sql, args, err := r.sb.Select(complaintColumns...).
		From("complaints").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list complaints query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing complaints: %w", err)
	}
	defer rows.Close()

	complaints := []*models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

// ListComplaints returns the complaints of a hostel, optionally by status
func (r *HostelRepository) ListComplaints(ctx context.Context, hostelID int64, status models.ComplaintStatus) ([]*models.Complaint, error) {
	where := squirrel.Eq{"hostel_id": hostelID}
	if status != "" {
		where["status"] = status
	}
	return r.queryComplaints(ctx, where)
}

// ListComplaintsByUser returns the complaints filed by a user
func (r *HostelRepository) ListComplaintsByUser(ctx context.Context, userID int64) ([]*models.Complaint, error) {
	return r.queryComplaints(ctx, squirrel.Eq{"user_id": userID})
}

// GetComplaint retrieves a complaint by ID
func (r *HostelRepository) GetComplaint(ctx context.Context, id int64) (*models.Complaint, error) {
	sql, args, err := r.sb.Select(complaintColumns...).From("complaints").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get complaint query: %w", err)
	}

	c, err := scanComplaint(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("error retrieving complaint: %w", err)
	}
	return c, nil
}

// CreateComplaint files a complaint in PENDING state
func (r *HostelRepository) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	sql, args, err := r.sb.Insert("complaints").
		Columns("hostel_id", "user_id", "category", "title", "description", "status").
		Values(c.HostelID, c.UserID, c.Category, c.Title, c.Description, models.ComplaintPending).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create complaint query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrHostelNotFound
		}
		return fmt.Errorf("error creating complaint: %w", err)
	}
	return nil
}

// UpdateComplaintStatus moves a complaint from one status to another. The
// update only applies while the complaint is still in status from.
func (r *HostelRepository) UpdateComplaintStatus(ctx context.Context, id int64, from, to models.ComplaintStatus, response *string) (*models.Complaint, error) {
	q := r.sb.Update("complaints").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + joinColumns(complaintColumns))
	if response != nil {
		q = q.Set("response", *response)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update complaint query: %w", err)
	}

	c, err := scanComplaint(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("error updating complaint: %w", err)
	}
	return c, nil
}

// GetMenu returns the weekly menu entries of a hostel
func (r *HostelRepository) GetMenu(ctx context.Context, hostelID int64) ([]models.MessMenuEntry, error) {
	sql, args, err := r.sb.Select("hostel_id", "day", "meal", "items").
		From("mess_menu_entries").
		Where(squirrel.Eq{"hostel_id": hostelID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get menu query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading menu: %w", err)
	}
	defer rows.Close()

	entries := []models.MessMenuEntry{}
	for rows.Next() {
		var e models.MessMenuEntry
		if err := rows.Scan(&e.HostelID, &e.Day, &e.Meal, &e.Items); err != nil {
			return nil, fmt.Errorf("error scanning menu entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceMenu swaps the whole weekly menu of a hostel in one transaction
func (r *HostelRepository) ReplaceMenu(ctx context.Context, hostelID int64, entries []models.MessMenuEntry) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("mess_menu_entries").Where(squirrel.Eq{"hostel_id": hostelID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build clear menu query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error clearing menu: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}

		insert := r.sb.Insert("mess_menu_entries").Columns("hostel_id", "day", "meal", "items")
		for _, e := range entries {
			insert = insert.Values(hostelID, e.Day, e.Meal, e.Items)
		}
		sql, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert menu query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsForeignKeyError(err) {
				return apperrors.ErrHostelNotFound
			}
			if dberrors.IsDuplicateConstraintError(err, "") {
				return apperrors.NewBadRequestError("each day and meal may appear only once")
			}
			return fmt.Errorf("error saving menu: %w", err)
		}
		return nil
	})
}
