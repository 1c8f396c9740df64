package store

import (
	"fmt"

	"isktrack/internal/log"
)

// Migration represents a database migration
type Migration struct {
	ID          int
	Description string
	SQL         string
}

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		ID:          1,
		Description: "Mission archive and settings tables",
		SQL: `
CREATE TABLE IF NOT EXISTS missions (
	id TEXT PRIMARY KEY,
	mission_name TEXT NOT NULL,
	mission_level INTEGER NOT NULL DEFAULT 0,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL DEFAULT '',
	bounties TEXT NOT NULL DEFAULT '0',
	mission_reward TEXT NOT NULL DEFAULT '0',
	time_bonus TEXT NOT NULL DEFAULT '0',
	loot_value TEXT NOT NULL DEFAULT '0',
	ammo TEXT NOT NULL DEFAULT '0',
	repairs TEXT NOT NULL DEFAULT '0',
	other_expenses TEXT NOT NULL DEFAULT '0',
	total_time_minutes INTEGER NOT NULL DEFAULT 0,
	isk_per_hour TEXT NOT NULL DEFAULT '0',
	notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`,
	},
	{
		ID:          2,
		Description: "Index mission archive by start time",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_missions_start_time ON missions(start_time);`,
	},
}

// runMigrations executes all pending migrations
func (s *SQLiteStore) runMigrations() error {
	if err := s.ensureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := s.currentSchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.ID <= currentVersion {
			continue
		}
		log.Debug("Applying store migration", "id", migration.ID, "description", migration.Description)
		if err := s.applyMigration(migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.ID, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ensureSchemaVersionTable() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`)
	return err
}

func (s *SQLiteStore) currentSchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	return version, err
}

func (s *SQLiteStore) applyMigration(migration Migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, migration.ID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
