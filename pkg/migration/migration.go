// Package migration runs registered schema migrations in order and records
// which have been applied.
package migration

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/dlatelier/storefront/pkg/logger"
)

// Migration is a named, reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type entry struct {
	name string
	m    Migration
}

var registered []entry

// Register adds a migration. Migrations run in registration name order, so
// prefix names with a sortable timestamp.
func Register(name string, m Migration) {
	registered = append(registered, entry{name: name, m: m})
}

type record struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	AppliedAt time.Time
}

func (record) TableName() string { return "storefront_migrations" }

// Runner applies and rolls back migrations against one database.
type Runner struct {
	db *gorm.DB
}

func NewRunner(db *gorm.DB) *Runner { return &Runner{db: db} }

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) applied() (map[string]bool, error) {
	var recs []record
	if err := r.db.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(recs))
	for _, rec := range recs {
		out[rec.Name] = true
	}
	return out, nil
}

func sorted() []entry {
	out := make([]entry, len(registered))
	copy(out, registered)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Run applies every pending migration.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	done, err := r.applied()
	if err != nil {
		return err
	}

	for _, e := range sorted() {
		if done[e.name] {
			continue
		}
		if err := e.m.Up(r.db); err != nil {
			return fmt.Errorf("migration %s: %w", e.name, err)
		}
		if err := r.db.Create(&record{Name: e.name, AppliedAt: time.Now()}).Error; err != nil {
			return err
		}
		logger.Info("migration applied", "name", e.name)
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return err
	}

	var last record
	if err := r.db.Order("id desc").First(&last).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Info("migration: nothing to roll back")
			return nil
		}
		return err
	}

	for _, e := range sorted() {
		if e.name != last.Name {
			continue
		}
		if err := e.m.Down(r.db); err != nil {
			return fmt.Errorf("migration %s down: %w", e.name, err)
		}
		if err := r.db.Delete(&last).Error; err != nil {
			return err
		}
		logger.Info("migration rolled back", "name", e.name)
		return nil
	}
	return fmt.Errorf("migration: %s applied but not registered", last.Name)
}

// Status logs each registered migration with its applied state.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	done, err := r.applied()
	if err != nil {
		return err
	}

	for _, e := range sorted() {
		state := "pending"
		if done[e.name] {
			state = "applied"
		}
		logger.Info("migration status", "name", e.name, "state", state)
	}
	return nil
}
