package migration

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/pkg/database"
)

type tableMigration struct{ table string }

func (m tableMigration) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE " + m.table + " (id INTEGER PRIMARY KEY)").Error
}

func (m tableMigration) Down(db *gorm.DB) error {
	return db.Exec("DROP TABLE " + m.table).Error
}

type failingMigration struct{}

func (failingMigration) Up(db *gorm.DB) error {
	if err := db.Exec("CREATE TABLE half_done (id INTEGER)").Error; err != nil {
		return err
	}
	return errors.New("boom")
}

func (failingMigration) Down(*gorm.DB) error { return nil }

// withRegistry swaps the global registry for the duration of a test.
func withRegistry(t *testing.T, regs ...registeredMigration) {
	t.Helper()
	registryMu.Lock()
	saved := registry
	registry = nil
	registryMu.Unlock()

	for _, reg := range regs {
		Register(reg.name, reg.m)
	}
	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestRunBatchesAndRollback(t *testing.T) {
	withRegistry(t,
		registeredMigration{"002_create_b", tableMigration{"b"}},
		registeredMigration{"001_create_a", tableMigration{"a"}},
	)
	db := openDB(t)
	var out bytes.Buffer
	r := New(db, &out)

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable("a"))
	assert.True(t, db.Migrator().HasTable("b"))
	assert.Less(t, bytes.Index(out.Bytes(), []byte("001_create_a")), bytes.Index(out.Bytes(), []byte("002_create_b")))

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	Register("003_create_c", tableMigration{"c"})
	require.NoError(t, r.Run())

	batch, err := r.lastBatch()
	require.NoError(t, err)
	assert.Equal(t, 2, batch)

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable("c"), "only the last batch is rolled back")
	assert.True(t, db.Migrator().HasTable("a"))

	out.Reset()
	require.NoError(t, r.Status())
	assert.Regexp(t, `001_create_a\s+Ran\s+1`, out.String())
	assert.Regexp(t, `003_create_c\s+Pending`, out.String())

	require.NoError(t, r.Rollback())
	out.Reset()
	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestFailedMigrationLeavesNoRecord(t *testing.T) {
	withRegistry(t, registeredMigration{"001_broken", failingMigration{}})
	db := openDB(t)

	require.Error(t, New(db, nil).Run())

	var n int64
	require.NoError(t, db.Model(&migrationRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRegisterTwicePanics(t *testing.T) {
	withRegistry(t, registeredMigration{"001_create_a", tableMigration{"a"}})
	assert.Panics(t, func() { Register("001_create_a", tableMigration{"a"}) })
}
