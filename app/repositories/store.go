package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store bundles the repositories over one database handle. A Store built
// inside Transaction shares the transaction across all of them.
type Store struct {
	db       *gorm.DB
	Users    *UserRepository
	Products *ProductRepository
	Variants *VariantLedger
	Items    *InventoryRepository
}

// NewStore wires every repository to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Variants: NewVariantLedger(db),
		Items:    NewInventoryRepository(db),
	}
}

// Transaction runs fn against a transaction-scoped Store. The transaction
// commits when fn returns nil and rolls back on an error or panic.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err came from a unique constraint.
// Drivers that do not translate errors are matched on their message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// like wraps s for a substring LIKE match.
func like(s string) string {
	return "%" + s + "%"
}
