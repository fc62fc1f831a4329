package services

import (
	"context"
	"mime/multipart"
	"strings"

	appauth "github.com/campusbeacon/api/internal/app/auth"
	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/campusbeacon/api/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

const itemImageDir = "items"

// ItemStore persists marketplace listings
type ItemStore interface {
	List(ctx context.Context, filter dto.ItemFilter, offset uint64, limit int) ([]*models.Item, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	SetSold(ctx context.Context, id int64, sold bool) error
	Delete(ctx context.Context, id int64) error
}

// MarketplaceService handles the buy/sell marketplace
type MarketplaceService struct {
	repo    ItemStore
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewMarketplaceService creates a new MarketplaceService
func NewMarketplaceService(repo ItemStore, storage filestorage.FileStorage, logger zerolog.Logger) *MarketplaceService {
	return &MarketplaceService{repo: repo, storage: storage, logger: logger}
}

func (s *MarketplaceService) withImageURL(item *models.Item) *models.Item {
	if item.ImagePath != nil {
		url := s.storage.URL(*item.ImagePath)
		item.ImageURL = &url
	}
	return item
}

func validatePriceRange(filter dto.ItemFilter) error {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return apperrors.NewValidationError("minPrice", "minPrice cannot exceed maxPrice")
	}
	return nil
}

// List returns one page of items matching filter, newest first
func (s *MarketplaceService) List(ctx context.Context, filter dto.ItemFilter, page, size int) (*dto.PaginatedResponse, error) {
	if err := validatePriceRange(filter); err != nil {
		return nil, err
	}

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

// MyItems lists the caller's own listings, sold ones included
func (s *MarketplaceService) MyItems(ctx context.Context, p appauth.Principal, page, size int) (*dto.PaginatedResponse, error) {
	return s.List(ctx, dto.ItemFilter{SellerID: p.UserID, IncludeSold: true}, page, size)
}

// Get returns an item by ID
func (s *MarketplaceService) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImageURL(item), nil
}

// Create lists an item for sale. image is optional.
func (s *MarketplaceService) Create(ctx context.Context, p appauth.Principal, req *dto.CreateItemRequest, image *multipart.FileHeader) (*models.Item, error) {
	if req.Price < 0 {
		return nil, apperrors.NewValidationError("price", "price cannot be negative")
	}

	item := &models.Item{
		SellerID:    p.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Condition:   req.Condition,
		Category:    strings.TrimSpace(req.Category),
	}

	if image != nil {
		info, err := s.storage.SaveFileWithPath(image, itemImageDir)
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

	s.logger.Info().Int64("itemID", item.ID).Int64("sellerID", p.UserID).Msg("Item listed")
	return s.Get(ctx, item.ID)
}

// Update edits a listing. Only the seller may do so.
func (s *MarketplaceService) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.UpdateItemRequest) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireOwner(p, item.SellerID, "item"); err != nil {
		return nil, err
	}
	if req.Price < 0 {
		return nil, apperrors.NewValidationError("price", "price cannot be negative")
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Description = strings.TrimSpace(req.Description)
	item.Price = req.Price
	item.Condition = req.Condition
	item.Category = strings.TrimSpace(req.Category)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.withImageURL(item), nil
}

// MarkSold sets the sold flag. Only the seller may do so.
func (s *MarketplaceService) MarkSold(ctx context.Context, p appauth.Principal, id int64, sold bool) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireOwner(p, item.SellerID, "item"); err != nil {
		return nil, err
	}
	if err := s.repo.SetSold(ctx, id, sold); err != nil {
		return nil, err
	}
	item.IsSold = sold
	return s.withImageURL(item), nil
}

// Delete removes a listing and its image. The seller or an admin may do so.
func (s *MarketplaceService) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appauth.RequireOwnerOrAdmin(p, item.SellerID, "item"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if item.ImagePath != nil {
		removeStoredFile(s.storage, s.logger, *item.ImagePath)
	}
	return nil
}
