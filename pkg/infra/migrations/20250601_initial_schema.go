package migrations

import (
	"github.com/honeyguard/honeygate/pkg/infra/database"
	"gorm.io/gorm"
)

// Initial SQL schema. One table holds every captured interaction; the
// indexes back the admin listing, the triggered filter and the per-path
// stats.
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250601_initial_schema",
		Name: "Create trap_events table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE EXTENSION IF NOT EXISTS pgcrypto;
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS trap_events (
					id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					ip_address          TEXT NOT NULL,
					path                TEXT NOT NULL,
					method              TEXT NOT NULL,
					profile             TEXT,
					username            TEXT,
					password_masked     TEXT,
					user_agent          TEXT,
					referer             TEXT,
					accept_language     TEXT,
					accept_encoding     TEXT,
					honeypot_triggered  BOOLEAN NOT NULL DEFAULT FALSE,
					timing_issue        TEXT,
					elapsed_seconds     DOUBLE PRECISION,
					risk_score          INTEGER NOT NULL DEFAULT 0,
					metadata            JSONB,
					created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_trap_events_created_ip
					ON trap_events (created_at DESC, ip_address);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_trap_events_triggered
					ON trap_events (honeypot_triggered, created_at DESC);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_trap_events_path
					ON trap_events (path, created_at DESC);
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS trap_events;`).Error
		},
	})
}
