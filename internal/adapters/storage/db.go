package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step. Steps are applied in order and
// each runs inside its own transaction.
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "account_table",
		sql: `
		CREATE TABLE IF NOT EXISTS account (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			patente TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			last_login TEXT,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT
		);`,
	},
	{
		name: "account_role_index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_account_role ON account(role);`,
	},
}

// LatestSchemaVersion returns the version a fully migrated database reports.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the currently applied schema version (0 for a fresh database).
// PRE: db is a valid database connection
// POST: Returns the highest applied migration number
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}
	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// MigrateDB applies every pending migration.
// PRE: db is a valid database connection; label names the database in logs
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, label string) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for i := current; i < len(migrations); i++ {
		m := migrations[i]
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", version, m.name, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): record version: %w", version, m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d (%s): commit: %w", version, m.name, err)
		}
		slog.Info("db_migration_applied", "db", label, "version", version, "name", m.name)
	}
	return nil
}
