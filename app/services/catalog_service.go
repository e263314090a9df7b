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

// CatalogService validates product payloads and writes a product together
// with its variants in one transaction.
type CatalogService struct {
	store  *repositories.Store
	images *ImageStore
}

func NewCatalogService(store *repositories.Store, images *ImageStore) *CatalogService {
	return &CatalogService{store: store, images: images}
}

// ProductInput is a complete new product.
type ProductInput struct {
	SerialNumber string
	Price        decimal.Decimal
	Composition  string
	Variants     []VariantInput
	Image        *Upload
}

// ProductPatch is a partial update. Nil fields keep their stored value; a
// nil Variants leaves the variant set untouched, a non-nil one replaces it.
type ProductPatch struct {
	SerialNumber *string
	Price        *decimal.Decimal
	Composition  *string
	Variants     []VariantInput
	Image        *Upload
}

// ProductQuery selects one page of the catalog.
type ProductQuery struct {
	Search string
	Color  string
	Size   string
	Page   int
	Limit  int
}

func (q ProductQuery) filter() repositories.ProductFilter {
	return repositories.ProductFilter{
		Search: strings.TrimSpace(q.Search),
		Color:  strings.TrimSpace(q.Color),
		Size:   strings.TrimSpace(q.Size),
	}
}

// ProductPage is a listing page.
type ProductPage struct {
	Items      []models.Product
	Pagination orm.Pagination
}

// Create persists the product and all of its variants, or nothing.
func (s *CatalogService) Create(ctx context.Context, creator auth.Principal, in ProductInput) (*models.Product, error) {
	serial := strings.TrimSpace(in.SerialNumber)
	if errs := checkProductFields(&serial, &in.Price); len(errs) > 0 {
		return nil, invalid(errs)
	}
	variants, err := NormalizeVariants(in.Variants)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.Products.SerialTaken(ctx, serial, 0)
	if err != nil {
		return nil, storageErr("Failed to check serial number", err)
	}
	if taken {
		return nil, ErrDuplicateSerial
	}

	imageKey, err := s.images.Save(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		SerialNumber: serial,
		ImagePath:    imageKey,
		Price:        in.Price.Round(2),
		Composition:  strings.TrimSpace(in.Composition),
	}
	if creator.UserID != 0 {
		id := creator.UserID
		product.CreatedBy = &id
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		return tx.Variants.Insert(ctx, product.ID, variants)
	})
	if err != nil {
		s.images.Remove(ctx, imageKey)
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicateSerial
		}
		return nil, storageErr("Failed to create product", err)
	}

	metrics.RecordMutation("product", "create")
	logger.WithCtx(ctx).Info("catalog: product created",
		"product_id", product.ID, "serial_number", serial, "variants", len(variants))

	return s.Get(ctx, product.ID)
}

// Get returns a product with its variants.
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.Products.FindWithVariants(ctx, id)
	if repositories.IsNotFound(err) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, storageErr("Failed to load product", err)
	}
	s.decorate(p)
	return p, nil
}

// List returns one page of products, each carrying its full variant set.
func (s *CatalogService) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	items, p, err := s.store.Products.List(ctx, q.filter(), q.Page, q.Limit)
	if err != nil {
		return nil, storageErr("Failed to list products", err)
	}
	for i := range items {
		s.decorate(&items[i])
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ProductPage{Items: items, Pagination: p}, nil
}

// Update applies patch to product id. Field changes and a variant
// replacement commit together; on failure the product is left as it was.
func (s *CatalogService) Update(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	var serial *string
	if patch.SerialNumber != nil {
		v := strings.TrimSpace(*patch.SerialNumber)
		serial = &v
	}
	if errs := checkProductFields(serial, patch.Price); len(errs) > 0 {
		return nil, invalid(errs)
	}

	var variants []models.Variant
	if patch.Variants != nil {
		var err error
		if variants, err = NormalizeVariants(patch.Variants); err != nil {
			return nil, err
		}
	}

	current, err := s.store.Products.FindByID(ctx, id)
	if repositories.IsNotFound(err) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, storageErr("Failed to load product", err)
	}

	if serial != nil && *serial != current.SerialNumber {
		taken, err := s.store.Products.SerialTaken(ctx, *serial, id)
		if err != nil {
			return nil, storageErr("Failed to check serial number", err)
		}
		if taken {
			return nil, ErrDuplicateSerial
		}
		current.SerialNumber = *serial
	}
	if patch.Price != nil {
		current.Price = patch.Price.Round(2)
	}
	if patch.Composition != nil {
		current.Composition = strings.TrimSpace(*patch.Composition)
	}

	oldImage := current.ImagePath
	newImage, err := s.images.Save(ctx, patch.Image)
	if err != nil {
		return nil, err
	}
	if newImage != "" {
		current.ImagePath = newImage
	}

	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Products.Update(ctx, current); err != nil {
			return err
		}
		if variants != nil {
			return tx.Variants.Replace(ctx, id, variants)
		}
		return nil
	})
	if err != nil {
		s.images.Remove(ctx, newImage)
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicateSerial
		}
		return nil, storageErr("Failed to update product", err)
	}

	if newImage != "" && oldImage != "" {
		s.images.Remove(ctx, oldImage)
	}

	metrics.RecordMutation("product", "update")
	logger.WithCtx(ctx).Info("catalog: product updated",
		"product_id", id, "variants_replaced", variants != nil)

	return s.Get(ctx, id)
}

// Delete removes product id with its variants. The image is removed after
// the rows are gone; a failed removal is only logged.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	var imageKey string

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		p, err := tx.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		imageKey = p.ImagePath

		if _, err := tx.Variants.DeleteForProduct(ctx, id); err != nil {
			return err
		}
		_, err = tx.Products.Delete(ctx, id)
		return err
	})
	if repositories.IsNotFound(err) {
		return ErrProductNotFound
	}
	if err != nil {
		return storageErr("Failed to delete product", err)
	}

	s.images.Remove(ctx, imageKey)

	metrics.RecordMutation("product", "delete")
	logger.WithCtx(ctx).Info("catalog: product deleted", "product_id", id)
	return nil
}

// Stats summarises the catalog. An empty catalog yields zeros.
func (s *CatalogService) Stats(ctx context.Context) (models.CatalogStats, error) {
	stats, err := s.store.Products.Stats(ctx)
	if err != nil {
		return models.CatalogStats{}, storageErr("Failed to compute statistics", err)
	}
	return stats, nil
}

func (s *CatalogService) decorate(p *models.Product) {
	if p.Variants == nil {
		p.Variants = []models.Variant{}
	}
	p.ImageURL = s.images.URL(p.ImagePath)
	p.TotalQuantity = models.SumQuantity(p.Variants)
	if p.Creator != nil {
		p.CreatedByUsername = p.Creator.Username
	}
}

// checkProductFields validates the fields that are present.
func checkProductFields(serial *string, price *decimal.Decimal) map[string]string {
	errs := map[string]string{}
	if serial != nil && *serial == "" {
		errs["serial_number"] = "serial_number is required"
	}
	if serial != nil && len(*serial) > 100 {
		errs["serial_number"] = "serial_number may not exceed 100 characters"
	}
	if price != nil && price.IsNegative() {
		errs["price"] = "price must not be negative"
	}
	return errs
}
