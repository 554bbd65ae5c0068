package history

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version     int
	description string
	up          func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version:     1,
		description: "create sweeps table",
		up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE sweeps (
					id         TEXT PRIMARY KEY,
					subnet     TEXT NOT NULL,
					ssid       TEXT NOT NULL DEFAULT '',
					started_at DATETIME NOT NULL,
					ended_at   DATETIME,
					status     TEXT NOT NULL DEFAULT 'running',
					total      INTEGER NOT NULL DEFAULT 0,
					found      INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_sweeps_started ON sweeps(started_at)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// migrate applies pending migrations in ascending version order. Applied
// versions are tracked in the _migrations table.
func (s *Store) migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			version     INTEGER PRIMARY KEY,
			description TEXT    NOT NULL,
			applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM _migrations WHERE version = ?", m.version,
		).Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := m.up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO _migrations (version, description) VALUES (?, ?)",
			m.version, m.description); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}
