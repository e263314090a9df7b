package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
)

// VariantLedger owns the product_variants rows. A product's variants are
// written as a batch and replaced as a whole, never edited one by one.
type VariantLedger struct {
	db *gorm.DB
}

func NewVariantLedger(db *gorm.DB) *VariantLedger {
	return &VariantLedger{db: db}
}

// Insert adds variants under productID in one statement.
func (l *VariantLedger) Insert(ctx context.Context, productID uint, variants []models.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	defer metrics.ObserveDBQuery("insert", time.Now())

	rows := make([]models.Variant, len(variants))
	for i, v := range variants {
		rows[i] = models.Variant{
			ProductID: productID,
			Size:      v.Size,
			Color:     v.Color,
			Quantity:  v.Quantity,
		}
	}
	return l.db.WithContext(ctx).Create(&rows).Error
}

// Replace deletes every variant of productID and inserts variants. Run it
// inside a transaction so readers never see a partial set.
func (l *VariantLedger) Replace(ctx context.Context, productID uint, variants []models.Variant) error {
	if _, err := l.DeleteForProduct(ctx, productID); err != nil {
		return err
	}
	return l.Insert(ctx, productID, variants)
}

// DeleteForProduct removes all variants of productID.
func (l *VariantLedger) DeleteForProduct(ctx context.Context, productID uint) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := l.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Variant{})
	return res.RowsAffected, res.Error
}

// ForProduct returns the variants of productID in insertion order.
func (l *VariantLedger) ForProduct(ctx context.Context, productID uint) ([]models.Variant, error) {
	var variants []models.Variant
	err := l.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&variants).Error
	return variants, err
}

// Count returns how many variants productID has.
func (l *VariantLedger) Count(ctx context.Context, productID uint) (int64, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&models.Variant{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}
