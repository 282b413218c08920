package migrations

import (
	"github.com/ThreatPilot/SentinelRail/pkg/infra/database"
	"gorm.io/gorm"
)

// Initial SQL schema for the guardrail catalog.
// Tables: guardrail_definitions, guardrail_overrides
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250801_initial_schema",
		Name: "Create guardrail_definitions and guardrail_overrides tables",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS guardrail_definitions (
					id                   TEXT PRIMARY KEY,
					name                 TEXT NOT NULL,
					description          TEXT,
					category             TEXT NOT NULL,
					severity             TEXT NOT NULL,
					validation_type      TEXT NOT NULL,
					scope                TEXT NOT NULL,
					enabled              BOOLEAN NOT NULL DEFAULT TRUE,
					priority             INTEGER NOT NULL DEFAULT 50,
					tags                 JSONB,
					rule_body            TEXT,
					settings             JSONB,
					applicable_functions JSONB,
					applicable_platforms JSONB,
					created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_guardrail_definitions_category
				ON guardrail_definitions (category);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_guardrail_definitions_scope
				ON guardrail_definitions (scope);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_guardrail_definitions_validation_type
				ON guardrail_definitions (validation_type);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS guardrail_overrides (
					function_id  TEXT NOT NULL,
					guardrail_id TEXT NOT NULL,
					definition   JSONB NOT NULL,
					enabled      BOOLEAN NOT NULL DEFAULT TRUE,
					updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (function_id, guardrail_id)
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_guardrail_overrides_function_id
				ON guardrail_overrides (function_id);
			`).Error; err != nil {
				return err
			}

			return nil
		},

		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP TABLE IF EXISTS guardrail_overrides;`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP TABLE IF EXISTS guardrail_definitions;`).Error
		},
	})
}
