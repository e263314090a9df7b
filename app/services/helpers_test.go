package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/app/repositories"
	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/internal/testdb"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/storage"
)

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	store     *repositories.Store
	disk      *storage.LocalDisk
	images    *services.ImageStore
	catalog   *services.CatalogService
	inventory *services.InventoryService
	admin     auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.Open(t)
	disk, err := storage.NewLocalDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	store := repositories.NewStore(db)
	images := services.NewImageStore(disk, 1024)

	admin := &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: auth.RoleAdmin}
	require.NoError(t, store.Users.Create(context.Background(), admin))

	return &fixture{
		ctx:       context.Background(),
		db:        db,
		store:     store,
		disk:      disk,
		images:    images,
		catalog:   services.NewCatalogService(store, images),
		inventory: services.NewInventoryService(store, images),
		admin:     services.PrincipalOf(admin),
	}
}

func variant(color, size, qty string) services.VariantInput {
	return services.VariantInput{Color: color, Size: size, Quantity: json.Number(qty)}
}

func (f *fixture) createProduct(t *testing.T, serial string, price string, variants ...services.VariantInput) *models.Product {
	t.Helper()
	p, err := f.catalog.Create(f.ctx, f.admin, services.ProductInput{
		SerialNumber: serial,
		Price:        mustDecimal(t, price),
		Composition:  "100% cotton",
		Variants:     variants,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) count(t *testing.T, model any, where ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
