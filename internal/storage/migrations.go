package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					date TEXT NOT NULL,
					policy TEXT NOT NULL,
					is_test_data INTEGER NOT NULL DEFAULT 0,
					total_drivers INTEGER NOT NULL DEFAULT 0,
					on_time INTEGER NOT NULL DEFAULT 0,
					late INTEGER NOT NULL DEFAULT 0,
					early_end INTEGER NOT NULL DEFAULT 0,
					not_on_job INTEGER NOT NULL DEFAULT 0,
					exact_matches INTEGER NOT NULL DEFAULT 0,
					fuzzy_matches INTEGER NOT NULL DEFAULT 0,
					unmatched INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS match_records (
					run_id TEXT NOT NULL,
					history_name TEXT NOT NULL,
					asset_list_name TEXT,
					match_type TEXT NOT NULL,
					score INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS classification_records (
					run_id TEXT NOT NULL,
					driver TEXT NOT NULL,
					display_name TEXT,
					asset_ids TEXT,
					job_site TEXT,
					status TEXT NOT NULL,
					reason TEXT,
					key_on TEXT,
					key_off TEXT,
					minutes_late INTEGER NOT NULL DEFAULT 0,
					minutes_early INTEGER NOT NULL DEFAULT 0,
					in_driving_history INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute %q: %w", query[:40], err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Indexes for run lookups",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(date)`,
				`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_match_records_run ON match_records(run_id)`,
				`CREATE INDEX IF NOT EXISTS idx_classification_records_run ON classification_records(run_id)`,
				`CREATE INDEX IF NOT EXISTS idx_classification_records_status ON classification_records(run_id, status)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute %q: %w", query[:40], err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
