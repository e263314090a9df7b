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

// InventoryRepository handles the single-table inventory items.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *InventoryRepository) FindByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Creator").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SerialTaken reports whether serial belongs to an item other than exceptID.
func (r *InventoryRepository) SerialTaken(ctx context.Context, serial string, exceptID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("serial_number = ?", serial)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return r.db.WithContext(ctx).
		Model(item).
		Select("serial_number", "size", "color", "quantity", "price", "composition", "image_path", "updated_at").
		Updates(item).Error
}

func (r *InventoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, id)
	return res.RowsAffected, res.Error
}

// List returns one page of items, newest first.
func (r *InventoryRepository) List(ctx context.Context, f ProductFilter, page, limit int) ([]models.InventoryItem, orm.Pagination, error) {
	q := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if f.Search != "" {
		term := like(f.Search)
		q = q.Where("(serial_number LIKE ? OR composition LIKE ?)", term, term)
	}
	if f.Color != "" {
		q = q.Where("color LIKE ?", like(f.Color))
	}
	if f.Size != "" {
		q = q.Where("size = ?", f.Size)
	}

	var items []models.InventoryItem
	p, err := orm.Paginate(q, page, limit, &items, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC").Preload("Creator")
	})
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return items, p, nil
}
