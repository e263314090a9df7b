// Package testdb opens a migrated in-memory sqlite database for tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/wardrobe/database/migrations"
	"github.com/shashiranjanraj/wardrobe/pkg/database"
	"github.com/shashiranjanraj/wardrobe/pkg/migration"
)

// Open returns a fresh database with every migration applied. It is closed
// when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, migration.New(db, nil).Run())
	return db
}
