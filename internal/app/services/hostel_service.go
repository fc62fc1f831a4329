package services

import (
	"context"
	"fmt"
	"strings"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// HostelStore persists hostels and everything attached to them
type HostelStore interface {
	List(ctx context.Context) ([]*models.Hostel, error)
	GetByID(ctx context.Context, id int64) (*models.Hostel, error)
	Create(ctx context.Context, hostel *models.Hostel) error
	Update(ctx context.Context, hostel *models.Hostel) error
	Delete(ctx context.Context, id int64) error

	ListOfficials(ctx context.Context, hostelID int64) ([]*models.Official, error)
	CreateOfficial(ctx context.Context, official *models.Official) error
	DeleteOfficial(ctx context.Context, hostelID, id int64) error

	ListNotifications(ctx context.Context, hostelID int64) ([]*models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	DeleteNotification(ctx context.Context, hostelID, id int64) error

	ListComplaints(ctx context.Context, hostelID int64, status models.ComplaintStatus) ([]*models.Complaint, error)
	ListComplaintsByUser(ctx context.Context, userID int64) ([]*models.Complaint, error)
	GetComplaint(ctx context.Context, id int64) (*models.Complaint, error)
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	UpdateComplaintStatus(ctx context.Context, id int64, from, to models.ComplaintStatus, response *string) (*models.Complaint, error)

	GetMenu(ctx context.Context, hostelID int64) ([]models.MessMenuEntry, error)
	ReplaceMenu(ctx context.Context, hostelID int64, entries []models.MessMenuEntry) error
}

// ResidentCounter counts users assigned to a hostel
type ResidentCounter interface {
	CountByHostel(ctx context.Context, hostelID int64) (int64, error)
}

// HostelService handles hostel information and the complaint workflow
type HostelService struct {
	repo      HostelStore
	residents ResidentCounter
	logger    zerolog.Logger
}

// NewHostelService creates a new HostelService
func NewHostelService(repo HostelStore, residents ResidentCounter, logger zerolog.Logger) *HostelService {
	return &HostelService{repo: repo, residents: residents, logger: logger}
}

// List returns all hostels
func (s *HostelService) List(ctx context.Context) ([]*models.Hostel, error) {
	return s.repo.List(ctx)
}

// Get returns a hostel by ID
func (s *HostelService) Get(ctx context.Context, id int64) (*models.Hostel, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a hostel. Admin only.
func (s *HostelService) Create(ctx context.Context, p appauth.Principal, req *dto.HostelRequest) (*models.Hostel, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	hostel := &models.Hostel{
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		WardenName: strings.TrimSpace(req.WardenName),
		Capacity:   req.Capacity,
	}
	if err := s.repo.Create(ctx, hostel); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("hostelID", hostel.ID).Str("name", hostel.Name).Msg("Hostel created")
	return hostel, nil
}

// Update changes a hostel's details. Admin only.
func (s *HostelService) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.HostelRequest) (*models.Hostel, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	hostel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hostel.Name = strings.TrimSpace(req.Name)
	hostel.Type = req.Type
	hostel.WardenName = strings.TrimSpace(req.WardenName)
	hostel.Capacity = req.Capacity
	if err := s.repo.Update(ctx, hostel); err != nil {
		return nil, err
	}
	return hostel, nil
}

// Delete removes a hostel that has no residents. Admin only.
func (s *HostelService) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	if err := appauth.RequireAdmin(p); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.residents.CountByHostel(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Wrap(apperrors.ErrHostelHasResidents,
			fmt.Sprintf("hostel has %d residents and cannot be deleted", count))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("hostelID", id).Msg("Hostel deleted")
	return nil
}

// Officials lists the staff contacts of a hostel
func (s *HostelService) Officials(ctx context.Context, hostelID int64) ([]*models.Official, error) {
	if _, err := s.repo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	return s.repo.ListOfficials(ctx, hostelID)
}

// AddOfficial adds a staff contact. Admin only.
func (s *HostelService) AddOfficial(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.OfficialRequest) (*models.Official, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	official := &models.Official{
		HostelID:    hostelID,
		Name:        strings.TrimSpace(req.Name),
		Designation: strings.TrimSpace(req.Designation),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
	}
	if err := s.repo.CreateOfficial(ctx, official); err != nil {
		return nil, err
	}
	return official, nil
}

// RemoveOfficial deletes a staff contact. Admin only.
func (s *HostelService) RemoveOfficial(ctx context.Context, p appauth.Principal, hostelID, id int64) error {
	if err := appauth.RequireAdmin(p); err != nil {
		return err
	}
	return s.repo.DeleteOfficial(ctx, hostelID, id)
}

// Notifications lists the notices of a hostel, newest first
func (s *HostelService) Notifications(ctx context.Context, hostelID int64) ([]*models.Notification, error) {
	if _, err := s.repo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	return s.repo.ListNotifications(ctx, hostelID)
}

// PostNotification posts a notice. Admin only.
func (s *HostelService) PostNotification(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.NotificationRequest) (*models.Notification, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	author := p.UserID
	n := &models.Notification{
		HostelID:  hostelID,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
		CreatedBy: &author,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// RemoveNotification deletes a notice. Admin only.
func (s *HostelService) RemoveNotification(ctx context.Context, p appauth.Principal, hostelID, id int64) error {
	if err := appauth.RequireAdmin(p); err != nil {
		return err
	}
	return s.repo.DeleteNotification(ctx, hostelID, id)
}

// Menu returns the weekly mess menu grouped by day in week order. Days
// without entries are omitted.
func (s *HostelService) Menu(ctx context.Context, hostelID int64) ([]dto.DayMenu, error) {
	if _, err := s.repo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	entries, err := s.repo.GetMenu(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	return groupMenu(entries), nil
}

func groupMenu(entries []models.MessMenuEntry) []dto.DayMenu {
	byDay := make(map[models.Weekday]map[models.Meal]string)
	for _, e := range entries {
		if byDay[e.Day] == nil {
			byDay[e.Day] = make(map[models.Meal]string)
		}
		byDay[e.Day][e.Meal] = e.Items
	}

	menu := make([]dto.DayMenu, 0, len(byDay))
	for _, day := range models.WeekOrder {
		meals, ok := byDay[day]
		if !ok {
			continue
		}
		dm := dto.DayMenu{Day: day, Meals: make([]dto.MealItems, 0, len(meals))}
		for _, meal := range models.MealOrder {
			if items, ok := meals[meal]; ok {
				dm.Meals = append(dm.Meals, dto.MealItems{Meal: meal, Items: items})
			}
		}
		menu = append(menu, dm)
	}
	return menu
}

// UpdateMenu replaces the whole weekly menu. Admin only.
func (s *HostelService) UpdateMenu(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.UpdateMenuRequest) ([]dto.DayMenu, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}

	type slot struct {
		day  models.Weekday
		meal models.Meal
	}
	seen := make(map[slot]bool, len(req.Entries))
	entries := make([]models.MessMenuEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		key := slot{e.Day, e.Meal}
		if seen[key] {
			return nil, apperrors.NewValidationError("entries",
				fmt.Sprintf("%s %s is listed more than once", e.Day, e.Meal))
		}
		seen[key] = true
		entries = append(entries, models.MessMenuEntry{
			HostelID: hostelID,
			Day:      e.Day,
			Meal:     e.Meal,
			Items:    strings.TrimSpace(e.Items),
		})
	}

	if err := s.repo.ReplaceMenu(ctx, hostelID, entries); err != nil {
		return nil, err
	}
	return groupMenu(entries), nil
}

// FileComplaint records a PENDING complaint from the caller
func (s *HostelService) FileComplaint(ctx context.Context, p appauth.Principal, hostelID int64, req *dto.CreateComplaintRequest) (*models.Complaint, error) {
	if _, err := s.repo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	c := &models.Complaint{
		HostelID:    hostelID,
		UserID:      p.UserID,
		Category:    strings.TrimSpace(req.Category),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.ComplaintPending,
	}
	if err := s.repo.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("complaintID", c.ID).Int64("hostelID", hostelID).Msg("Complaint filed")
	return c, nil
}

// MyComplaints lists the complaints filed by the caller
func (s *HostelService) MyComplaints(ctx context.Context, p appauth.Principal) ([]*models.Complaint, error) {
	return s.repo.ListComplaintsByUser(ctx, p.UserID)
}

// HostelComplaints lists a hostel's complaints, optionally by status. Admin only.
func (s *HostelService) HostelComplaints(ctx context.Context, p appauth.Principal, hostelID int64, status models.ComplaintStatus) ([]*models.Complaint, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, hostelID); err != nil {
		return nil, err
	}
	return s.repo.ListComplaints(ctx, hostelID, status)
}

// UpdateComplaintStatus moves a complaint along its workflow. Admin only.
func (s *HostelService) UpdateComplaintStatus(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateComplaintStatusRequest) (*models.Complaint, error) {
	if err := appauth.RequireAdmin(p); err != nil {
		return nil, err
	}
	current, err := s.repo.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(req.Status) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidStatusTransition,
			fmt.Sprintf("cannot move a complaint from %s to %s", current.Status, req.Status))
	}

	updated, err := s.repo.UpdateComplaintStatus(ctx, id, current.Status, req.Status, req.Response)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("complaintID", id).
		Str("from", string(current.Status)).Str("to", string(req.Status)).
		Msg("Complaint status updated")
	return updated, nil
}
