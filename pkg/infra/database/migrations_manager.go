package database

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

const versionTable = "public.migration_version"

// Migration is one schema step. Migrations register themselves from init
// and run in lexicographic ID order, so IDs start with a date.
type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var registry = make(map[string]Migration)

func RegisterMigration(m Migration) {
	if _, exists := registry[m.ID]; exists {
		panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
	}
	registry[m.ID] = m
}

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

func (m *MigrationsManager) ensureVersionTable() error {
	return m.db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`, versionTable)).Error
}

func (m *MigrationsManager) appliedIDs() (map[string]struct{}, error) {
	type row struct{ ID string }
	var rows []row
	if err := m.db.Raw("SELECT id FROM " + versionTable).Scan(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		applied[r.ID] = struct{}{}
	}
	return applied, nil
}

// ApplyPending runs every registered migration that has no row in the
// version table yet and records each one as it lands. Both trap and admin
// replicas call this on boot; the IF NOT EXISTS statements inside the
// migrations keep a concurrent boot from failing.
func (m *MigrationsManager) ApplyPending() error {
	if err := m.ensureVersionTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := m.appliedIDs()
	if err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	order := make([]string, 0, len(registry))
	for id := range registry {
		order = append(order, id)
	}
	sort.Strings(order)

	for _, id := range order {
		if _, ok := applied[id]; ok {
			continue
		}
		mig := registry[id]
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", id)
		}
		if err := mig.Up(m.db); err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
		insert := fmt.Sprintf("INSERT INTO %s (id, name, applied_at) VALUES (?, ?, ?)", versionTable)
		if err := m.db.Exec(insert, mig.ID, mig.Name, time.Now()).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", mig.ID, err)
		}
	}
	return nil
}
