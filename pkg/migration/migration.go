// Package migration runs named, batch-tracked schema migrations.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and run from the CLI:
//
//	wardrobe migrate            // run all pending
//	wardrobe migrate:rollback   // roll back the last batch
package migration

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var (
	registryMu sync.Mutex
	registry   []registeredMigration
)

// Register adds a migration to the global registry. Names should be
// timestamp-prefixed; pending migrations run in name order.
func Register(name string, m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, reg := range registry {
		if reg.name == name {
			panic(fmt.Sprintf("migration: %q registered twice", name))
		}
	}
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	registryMu.Lock()
	defer registryMu.Unlock()

	out := append([]registeredMigration(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner backed by db. Progress lines go to out (may be nil).
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var records []migrationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

// Run executes all pending migrations as one batch. Each migration and its
// tracking row commit together.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	done, err := r.ran()
	if err != nil {
		return fmt.Errorf("migration: fetch ran: %w", err)
	}

	var pending []registeredMigration
	for _, reg := range registered() {
		if _, ok := done[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}

	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name, "batch", batch)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := reg.m.Up(tx); err != nil {
				return fmt.Errorf("migration: %s up: %w", reg.name, err)
			}
			return tx.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  Migrated: %s\n", reg.name)
	}

	return nil
}

// Rollback reverses every migration from the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	known := make(map[string]Migration)
	for _, reg := range registered() {
		known[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("migration: %s down: %w", rec.Name, err)
			}
			return tx.Delete(&migrationRecord{}, rec.ID).Error
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  Rolled back: %s\n", rec.Name)
	}

	return nil
}

// Status writes a table of every registered migration and its batch.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}

	done, err := r.ran()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH")
	for _, reg := range registered() {
		if rec, ok := done[reg.name]; ok {
			fmt.Fprintf(w, "%s\tRan\t%d\n", reg.name, rec.Batch)
		} else {
			fmt.Fprintf(w, "%s\tPending\t-\n", reg.name)
		}
	}
	return w.Flush()
}

func (r *Runner) lastBatch() (int, error) {
	var batch int
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0)").Row().Scan(&batch)
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return batch, nil
}
