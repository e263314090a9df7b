package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/app/repositories"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/logger"
	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
	"github.com/shashiranjanraj/wardrobe/pkg/orm"
)

// InventoryService manages single-row inventory items.
type InventoryService struct {
	store  *repositories.Store
	images *ImageStore
}

func NewInventoryService(store *repositories.Store, images *ImageStore) *InventoryService {
	return &InventoryService{store: store, images: images}
}

type ItemInput struct {
	SerialNumber string
	Size         string
	Color        string
	Quantity     int64
	Price        decimal.Decimal
	Composition  string
	Image        *Upload
}

// ItemPatch is a partial update; nil fields keep their stored value.
type ItemPatch struct {
	SerialNumber *string
	Size         *string
	Color        *string
	Quantity     *int64
	Price        *decimal.Decimal
	Composition  *string
	Image        *Upload
}

type ItemPage struct {
	Items      []models.InventoryItem
	Pagination orm.Pagination
}

func (s *InventoryService) Create(ctx context.Context, creator auth.Principal, in ItemInput) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		Size:         strings.TrimSpace(in.Size),
		Color:        strings.TrimSpace(in.Color),
		Quantity:     in.Quantity,
		Price:        in.Price.Round(2),
		Composition:  strings.TrimSpace(in.Composition),
	}
	if errs := checkItem(item); len(errs) > 0 {
		return nil, invalid(errs)
	}
	if creator.UserID != 0 {
		id := creator.UserID
		item.CreatedBy = &id
	}

	taken, err := s.store.Items.SerialTaken(ctx, item.SerialNumber, 0)
	if err != nil {
		return nil, storageErr("Failed to check serial number", err)
	}
	if taken {
		return nil, ErrDuplicateSerial
	}

	if item.ImagePath, err = s.images.Save(ctx, in.Image); err != nil {
		return nil, err
	}

	if err := s.store.Items.Create(ctx, item); err != nil {
		s.images.Remove(ctx, item.ImagePath)
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicateSerial
		}
		return nil, storageErr("Failed to create item", err)
	}

	metrics.RecordMutation("inventory", "create")
	logger.WithCtx(ctx).Info("inventory: item created", "item_id", item.ID)
	return s.Get(ctx, item.ID)
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.InventoryItem, error) {
	item, err := s.store.Items.FindByID(ctx, id)
	if repositories.IsNotFound(err) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, storageErr("Failed to load item", err)
	}
	s.decorate(item)
	return item, nil
}

func (s *InventoryService) List(ctx context.Context, q ProductQuery) (*ItemPage, error) {
	items, p, err := s.store.Items.List(ctx, q.filter(), q.Page, q.Limit)
	if err != nil {
		return nil, storageErr("Failed to list items", err)
	}
	for i := range items {
		s.decorate(&items[i])
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	return &ItemPage{Items: items, Pagination: p}, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint, patch ItemPatch) (*models.InventoryItem, error) {
	item, err := s.store.Items.FindByID(ctx, id)
	if repositories.IsNotFound(err) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, storageErr("Failed to load item", err)
	}

	if patch.SerialNumber != nil {
		item.SerialNumber = strings.TrimSpace(*patch.SerialNumber)
	}
	if patch.Size != nil {
		item.Size = strings.TrimSpace(*patch.Size)
	}
	if patch.Color != nil {
		item.Color = strings.TrimSpace(*patch.Color)
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		item.Price = patch.Price.Round(2)
	}
	if patch.Composition != nil {
		item.Composition = strings.TrimSpace(*patch.Composition)
	}
	if errs := checkItem(item); len(errs) > 0 {
		return nil, invalid(errs)
	}

	taken, err := s.store.Items.SerialTaken(ctx, item.SerialNumber, id)
	if err != nil {
		return nil, storageErr("Failed to check serial number", err)
	}
	if taken {
		return nil, ErrDuplicateSerial
	}

	oldImage := item.ImagePath
	newImage, err := s.images.Save(ctx, patch.Image)
	if err != nil {
		return nil, err
	}
	if newImage != "" {
		item.ImagePath = newImage
	}

	if err := s.store.Items.Update(ctx, item); err != nil {
		s.images.Remove(ctx, newImage)
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicateSerial
		}
		return nil, storageErr("Failed to update item", err)
	}
	if newImage != "" && oldImage != "" {
		s.images.Remove(ctx, oldImage)
	}

	metrics.RecordMutation("inventory", "update")
	return s.Get(ctx, id)
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	item, err := s.store.Items.FindByID(ctx, id)
	if repositories.IsNotFound(err) {
		return ErrItemNotFound
	}
	if err != nil {
		return storageErr("Failed to load item", err)
	}

	n, err := s.store.Items.Delete(ctx, id)
	if err != nil {
		return storageErr("Failed to delete item", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}

	s.images.Remove(ctx, item.ImagePath)
	metrics.RecordMutation("inventory", "delete")
	return nil
}

func (s *InventoryService) decorate(item *models.InventoryItem) {
	item.ImageURL = s.images.URL(item.ImagePath)
	if item.Creator != nil {
		item.CreatedByUsername = item.Creator.Username
	}
}

func checkItem(item *models.InventoryItem) map[string]string {
	errs := map[string]string{}
	if item.SerialNumber == "" {
		errs["serial_number"] = "serial_number is required"
	}
	if item.Size == "" {
		errs["size"] = "size is required"
	}
	if item.Color == "" {
		errs["color"] = "color is required"
	}
	if item.Quantity < 0 {
		errs["quantity"] = "quantity must not be negative"
	}
	if item.Price.IsNegative() {
		errs["price"] = "price must not be negative"
	}
	return errs
}
