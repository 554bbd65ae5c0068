// Package history keeps a durable log of past sweeps in SQLite. The device
// catalog itself lives in the JSON file owned by the catalog package; this
// log only records when sweeps ran and what they found.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/nobrega8/netscan2/pkg/models"
)

// Store records completed sweeps in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex // Serialize migrations
}

// Open opens (or creates) the history database at path and applies pragmas
// plus pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// SQLite performs best with a single write connection. WAL enables
	// concurrent readers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	// modernc.org/sqlite requires SQL statements, not DSN params.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSweep inserts one finished sweep into the log.
func (s *Store) RecordSweep(ctx context.Context, res *models.SweepResult) error {
	var ended any
	if !res.EndedAt.IsZero() {
		ended = res.EndedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sweeps (id, subnet, ssid, started_at, ended_at, status, total, found)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Subnet, res.SSID,
		res.StartedAt.UTC().Format(time.RFC3339Nano), ended,
		res.Status, res.Total, res.Found,
	)
	if err != nil {
		return fmt.Errorf("record sweep %s: %w", res.ID, err)
	}
	return nil
}

// ListSweeps returns the most recent sweeps, newest first.
func (s *Store) ListSweeps(ctx context.Context, limit int) ([]*models.SweepResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subnet, ssid, started_at, ended_at, status, total, found
		FROM sweeps ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sweeps: %w", err)
	}
	defer rows.Close()

	var out []*models.SweepResult
	for rows.Next() {
		var (
			res     models.SweepResult
			started string
			ended   sql.NullString
		)
		if err := rows.Scan(&res.ID, &res.Subnet, &res.SSID,
			&started, &ended, &res.Status, &res.Total, &res.Found); err != nil {
			return nil, fmt.Errorf("scan sweep: %w", err)
		}
		if res.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if ended.Valid {
			if res.EndedAt, err = time.Parse(time.RFC3339Nano, ended.String); err != nil {
				return nil, fmt.Errorf("parse ended_at: %w", err)
			}
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// Prune deletes log entries older than the cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sweeps WHERE started_at < ?",
		olderThan.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune sweeps: %w", err)
	}
	return res.RowsAffected()
}
