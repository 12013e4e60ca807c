package migrations

import (
	"github.com/honeyguard/honeygate/pkg/infra/database"
	"gorm.io/gorm"
)

// Detector flags and user agent classification arrived after the first
// release; older rows keep empty defaults.
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250710_add_detection_columns",
		Name: "Add flags and user agent classification columns to trap_events",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				ALTER TABLE trap_events
					ADD COLUMN IF NOT EXISTS flags    TEXT[] NOT NULL DEFAULT '{}',
					ADD COLUMN IF NOT EXISTS device   TEXT,
					ADD COLUMN IF NOT EXISTS os_name  TEXT,
					ADD COLUMN IF NOT EXISTS browser  TEXT;
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`
				ALTER TABLE trap_events
					DROP COLUMN IF EXISTS flags,
					DROP COLUMN IF EXISTS device,
					DROP COLUMN IF EXISTS os_name,
					DROP COLUMN IF EXISTS browser;
			`).Error
		},
	})
}
