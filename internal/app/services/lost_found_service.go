package services

import (
	"context"
	"mime/multipart"
	"strings"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

const lostItemImageDir = "lost-items"

// LostItemStore persists lost-and-found posts
type LostItemStore interface {
	List(ctx context.Context, filter dto.LostItemFilter, offset uint64, limit int) ([]*models.LostItem, int64, error)
	GetByID(ctx context.Context, id int64) (*models.LostItem, error)
	Create(ctx context.Context, item *models.LostItem) error
	UpdateStatus(ctx context.Context, id int64, status models.LostItemStatus) error
	Delete(ctx context.Context, id int64) error
}

// LostFoundService handles lost-and-found listings
type LostFoundService struct {
	repo    LostItemStore
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewLostFoundService creates a new LostFoundService
func NewLostFoundService(repo LostItemStore, storage filestorage.FileStorage, logger zerolog.Logger) *LostFoundService {
	return &LostFoundService{repo: repo, storage: storage, logger: logger}
}

func (s *LostFoundService) withImageURL(item *models.LostItem) *models.LostItem {
	if item.ImagePath != nil {
		url := s.storage.URL(*item.ImagePath)
		item.ImageURL = &url
	}
	return item
}

// List returns one page of lost items, newest first
func (s *LostFoundService) List(ctx context.Context, filter dto.LostItemFilter, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	items, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		s.withImageURL(item)
	}
	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Get returns a lost item by ID
func (s *LostFoundService) Get(ctx context.Context, id int64) (*models.LostItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImageURL(item), nil
}

// Create posts a lost item. image is optional.
func (s *LostFoundService) Create(ctx context.Context, p appauth.Principal, req *dto.CreateLostItemRequest, image *multipart.FileHeader) (*models.LostItem, error) {
	item := &models.LostItem{
		OwnerID:     p.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Contact:     strings.TrimSpace(req.Contact),
		Status:      req.Status,
	}
	if item.Status == "" {
		item.Status = models.LostItemStatusLost
	}

	if image != nil {
		info, err := s.storage.SaveFileWithPath(image, lostItemImageDir)
		if err != nil {
			return nil, err
		}
		item.ImagePath = &info.Path
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if item.ImagePath != nil {
			removeStoredFile(s.storage, s.logger, *item.ImagePath)
		}
		return nil, err
	}

	s.logger.Info().Int64("lostItemID", item.ID).Int64("ownerID", p.UserID).Msg("Lost item posted")
	return s.Get(ctx, item.ID)
}

// UpdateStatus changes the status of a lost item. Only its owner may do so.
func (s *LostFoundService) UpdateStatus(ctx context.Context, p appauth.Principal, id int64, status models.LostItemStatus) (*models.LostItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireOwner(p, item.OwnerID, "lost item"); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a lost item and its image. Only its owner may do so.
func (s *LostFoundService) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appauth.RequireOwner(p, item.OwnerID, "lost item"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if item.ImagePath != nil {
		removeStoredFile(s.storage, s.logger, *item.ImagePath)
	}

	s.logger.Info().Int64("lostItemID", id).Msg("Lost item deleted")
	return nil
}
