package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &createUsersTable{})
	migration.Register("20260101000001_create_products_table", &createProductsTable{})
	migration.Register("20260101000002_create_product_variants_table", &createProductVariantsTable{})
	migration.Register("20260101000003_create_inventory_table", &createInventoryTable{})
}

type createUsersTable struct{}

func (createUsersTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.User{}) }
func (createUsersTable) Down(db *gorm.DB) error { return db.Migrator().DropTable(&models.User{}) }

type createProductsTable struct{}

func (createProductsTable) Up(db *gorm.DB) error { return db.AutoMigrate(&models.Product{}) }
func (createProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// Variants carry a composite unique key on (product_id, size, color) and
// cascade with their product.
type createProductVariantsTable struct{}

func (createProductVariantsTable) Up(db *gorm.DB) error { return db.AutoMigrate(&models.Variant{}) }
func (createProductVariantsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Variant{})
}

type createInventoryTable struct{}

func (createInventoryTable) Up(db *gorm.DB) error { return db.AutoMigrate(&models.InventoryItem{}) }
func (createInventoryTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.InventoryItem{})
}
