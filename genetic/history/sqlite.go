//go:build sqlite

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, summary GenerationSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if summary.RunID == "" {
		return errors.New("run id is required")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, size, best, worst, mean, stdev, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			size = excluded.size,
			best = excluded.best,
			worst = excluded.worst,
			mean = excluded.mean,
			stdev = excluded.stdev,
			recorded_at = excluded.recorded_at
	`, summary.RunID, summary.Generation, summary.Size, summary.Best, summary.Worst,
		summary.Mean, summary.StdDev, summary.RecordedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save generation %d of run %s: %w", summary.Generation, summary.RunID, err)
	}
	return nil
}

func (s *SQLiteStore) Generations(ctx context.Context, runID string) ([]GenerationSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, size, best, worst, mean, stdev, recorded_at
		FROM generations
		WHERE run_id = ?
		ORDER BY generation
	`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []GenerationSummary
	for rows.Next() {
		summary := GenerationSummary{RunID: runID}
		var recordedAt int64
		if err := rows.Scan(&summary.Generation, &summary.Size, &summary.Best, &summary.Worst,
			&summary.Mean, &summary.StdDev, &recordedAt); err != nil {
			return nil, false, err
		}
		summary.RecordedAt = time.Unix(0, recordedAt)
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out, true, nil
}

func (s *SQLiteStore) Runs(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT DISTINCT run_id FROM generations ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			size INTEGER NOT NULL,
			best REAL NOT NULL,
			worst REAL NOT NULL,
			mean REAL NOT NULL,
			stdev REAL NOT NULL,
			recorded_at INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
