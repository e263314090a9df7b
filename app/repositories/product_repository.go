package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
	"github.com/shashiranjanraj/wardrobe/pkg/orm"
)

// ProductFilter narrows a product listing. Search matches serial number or
// composition; Color is a substring and Size an exact match, both evaluated
// per variant.
type ProductFilter struct {
	Search string
	Color  string
	Size   string
}

// ProductRepository owns the products table.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts p without touching its associations.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// FindByID loads the bare product row.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindWithVariants loads a product with its creator and ordered variants.
func (r *ProductRepository) FindWithVariants(ctx context.Context, id uint) (*models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var p models.Product
	err := r.db.WithContext(ctx).
		Scopes(withVariants).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SerialTaken reports whether serial belongs to a product other than exceptID.
func (r *ProductRepository) SerialTaken(ctx context.Context, serial string, exceptID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("serial_number = ?", serial)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Update writes the mutable columns of p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.db.WithContext(ctx).
		Model(p).
		Select("serial_number", "price", "composition", "image_path", "updated_at").
		Updates(p).Error
}

// Delete removes the product row and reports how many rows went away.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}

// List returns one page of products, newest first, each with its complete
// variant set. Variant filters use EXISTS so a product appears once no
// matter how many of its variants match.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	p, err := orm.Paginate(r.filtered(ctx, f), page, limit, &products, newestFirst, withVariants)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return products, p, nil
}

// All returns every product matching f, newest first, with variants.
func (r *ProductRepository) All(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var products []models.Product
	err := r.filtered(ctx, f).Scopes(newestFirst, withVariants).Find(&products).Error
	return products, err
}

// Stats aggregates the whole catalog. Each figure is its own statement, so
// the result may straddle a concurrent write.
func (r *ProductRepository) Stats(ctx context.Context) (models.CatalogStats, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var s models.CatalogStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Count(&s.TotalProducts).Error; err != nil {
		return s, err
	}

	variants := db.Model(&models.Variant{})
	if err := variants.Session(&gorm.Session{}).
		Select("COALESCE(SUM(quantity), 0)").
		Row().Scan(&s.TotalQuantity); err != nil {
		return s, err
	}

	if err := variants.Session(&gorm.Session{}).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Select("COALESCE(SUM(product_variants.quantity * products.price), 0)").
		Row().Scan(&s.TotalValue); err != nil {
		return s, err
	}
	s.TotalValue = s.TotalValue.Round(2)

	if err := variants.Session(&gorm.Session{}).Distinct("color").Count(&s.UniqueColors).Error; err != nil {
		return s, err
	}
	if err := variants.Session(&gorm.Session{}).Distinct("size").Count(&s.UniqueSizes).Error; err != nil {
		return s, err
	}

	return s, nil
}

func (r *ProductRepository) filtered(ctx context.Context, f ProductFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Product{})

	if f.Search != "" {
		term := like(f.Search)
		q = q.Where("(products.serial_number LIKE ? OR products.composition LIKE ?)", term, term)
	}

	if f.Color != "" || f.Size != "" {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Variant{}).
			Select("1").
			Where("product_variants.product_id = products.id")
		if f.Color != "" {
			sub = sub.Where("product_variants.color LIKE ?", like(f.Color))
		}
		if f.Size != "" {
			sub = sub.Where("product_variants.size = ?", f.Size)
		}
		q = q.Where("EXISTS (?)", sub)
	}

	return q
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("products.created_at DESC").Order("products.id DESC")
}

func withVariants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("product_variants.id ASC")
		}).
		Preload("Creator")
}
