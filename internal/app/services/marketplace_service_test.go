package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItemStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Item
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: map[int64]*models.Item{}}
}

func (f *fakeItemStore) List(_ context.Context, filter dto.ItemFilter, offset uint64, limit int) ([]*models.Item, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Item
	for _, it := range f.items {
		if it.IsSold && !filter.IncludeSold {
			continue
		}
		if filter.SellerID != 0 && it.SellerID != filter.SellerID {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.MinPrice != nil && it.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && it.Price > *filter.MaxPrice {
			continue
		}
		cp := *it
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeItemStore) GetByID(_ context.Context, id int64) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemStore) Create(_ context.Context, item *models.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemStore) Update(_ context.Context, item *models.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[item.ID]; !ok {
		return apperrors.ErrItemNotFound
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemStore) SetSold(_ context.Context, id int64, sold bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return apperrors.ErrItemNotFound
	}
	it.IsSold = sold
	return nil
}

func (f *fakeItemStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func listItem(t *testing.T, svc *MarketplaceService, name string, price float64) *models.Item {
	t.Helper()
	item, err := svc.Create(context.Background(), driver, &dto.CreateItemRequest{
		Name:      name,
		Price:     price,
		Condition: models.ItemConditionUsed,
		Category:  "books",
	}, nil)
	require.NoError(t, err)
	return item
}

func TestMarketplaceService_CreateWithImage(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewMarketplaceService(newFakeItemStore(), storage, zerolog.Nop())

	item, err := svc.Create(context.Background(), driver, &dto.CreateItemRequest{
		Name:      "  Calculus textbook ",
		Price:     450,
		Condition: models.ItemConditionLikeNew,
		Category:  "books",
	}, &multipart.FileHeader{Filename: "calc.png"})
	require.NoError(t, err)

	assert.Equal(t, "Calculus textbook", item.Name)
	assert.Equal(t, driver.UserID, item.SellerID)
	require.NotNil(t, item.ImageURL)
	assert.Equal(t, "/uploads/items/calc.png", *item.ImageURL)
}

func TestMarketplaceService_ListHidesSoldAndValidatesPriceRange(t *testing.T) {
	ctx := context.Background()
	svc := NewMarketplaceService(newFakeItemStore(), &fakeStorage{}, zerolog.Nop())

	cheap := listItem(t, svc, "Lamp", 100)
	listItem(t, svc, "Cycle", 3000)
	_, err := svc.MarkSold(ctx, driver, cheap.ID, true)
	require.NoError(t, err)

	page, err := svc.List(ctx, dto.ItemFilter{}, 1, 10)
	require.NoError(t, err)
	items := page.Items.([]*models.Item)
	require.Len(t, items, 1)
	assert.Equal(t, "Cycle", items[0].Name)

	mine, err := svc.MyItems(ctx, driver, 1, 10)
	require.NoError(t, err)
	assert.Len(t, mine.Items.([]*models.Item), 2)

	lo, hi := 500.0, 100.0
	_, err = svc.List(ctx, dto.ItemFilter{MinPrice: &lo, MaxPrice: &hi}, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestMarketplaceService_Ownership(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	svc := NewMarketplaceService(newFakeItemStore(), storage, zerolog.Nop())
	item := listItem(t, svc, "Kettle", 250)

	_, err := svc.Update(ctx, other, item.ID, &dto.UpdateItemRequest{
		Name: "Stolen", Price: 1, Condition: models.ItemConditionNew, Category: "misc",
	})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.MarkSold(ctx, admin, item.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	updated, err := svc.Update(ctx, driver, item.ID, &dto.UpdateItemRequest{
		Name: "Electric kettle", Price: 200, Condition: models.ItemConditionUsed, Category: "kitchen",
	})
	require.NoError(t, err)
	assert.Equal(t, "Electric kettle", updated.Name)
	assert.Equal(t, 200.0, updated.Price)

	assert.ErrorIs(t, svc.Delete(ctx, other, item.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, admin, item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrItemNotFound)
}
