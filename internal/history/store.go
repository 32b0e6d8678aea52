package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"arkiv/internal/commit"
)

// Store journals run outcomes in SQLite. It is write-only from the pipeline's
// point of view: nothing in the transcode policy reads it, so cross-run
// idempotence still rests entirely on the archival container tag.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one recorded pipeline invocation.
type Run struct {
	ID         string
	LibraryDir string
	StartedAt  time.Time
	FinishedAt time.Time
	Transcoded int
	Skipped    int
	Failed     int
	Missing    int
}

// Record is one persisted per-file outcome.
type Record struct {
	RunID        string
	Path         string
	Status       commit.Status
	Reason       string
	SizeDeltaMB  int64
	PercentSaved int
	ElapsedSecs  float64
	RecordedAt   time.Time
}

// Open initializes or connects to the history database and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a run row and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, libraryDir string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, library_dir, started_at) VALUES (?, ?, ?)`,
		id, libraryDir, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one per-file outcome to the run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, outcome commit.Outcome) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outcomes (
            run_id, path, status, reason,
            size_delta_mb, percent_saved, elapsed_seconds, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		outcome.Path,
		string(outcome.Status),
		outcome.Reason,
		outcome.SizeDeltaMB,
		outcome.PercentSaved,
		outcome.Elapsed.Seconds(),
		now,
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and outcome counters.
func (s *Store) FinishRun(ctx context.Context, runID string, transcoded, skipped, failed, missing int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, transcoded = ?, skipped = ?, failed = ?, missing = ? WHERE id = ?`,
		now, transcoded, skipped, failed, missing, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run %s", runID)
	}
	return nil
}

// RecentRuns returns the newest runs first, capped at limit.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, library_dir, started_at, COALESCE(finished_at, ''),
                transcoded, skipped, failed, missing
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.LibraryDir, &started, &finished,
			&run.Transcoded, &run.Skipped, &run.Failed, &run.Missing); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunOutcomes returns the per-file records of one run in insertion order.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, path, status, COALESCE(reason, ''),
                size_delta_mb, percent_saved, elapsed_seconds, recorded_at
         FROM outcomes WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var status, recorded string
		if err := rows.Scan(&rec.RunID, &rec.Path, &status, &rec.Reason,
			&rec.SizeDeltaMB, &rec.PercentSaved, &rec.ElapsedSecs, &recorded); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		rec.Status = commit.Status(status)
		rec.RecordedAt = parseTimestamp(recorded)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	return time.Time{}
}
