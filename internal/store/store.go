// Package store keeps a local SQLite log of fetch runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded fetch: an aggregate or a single source.
type Run struct {
	ID        string
	Label     string
	StartedAt time.Time
	Duration  time.Duration
	Items     int
	Skipped   int
	Failed    int
	Error     string
	Sources   []SourceResult
}

// SourceResult is one source's part of a run.
type SourceResult struct {
	Source   string
	URL      string
	Items    int
	Skipped  int
	Duration time.Duration
	Error    string
}

// SourceHealth aggregates a source's results across runs.
type SourceHealth struct {
	Source     string
	Fetches    int
	Failures   int
	Items      int
	LastOK     time.Time
	LastError  string
	LastSeenAt time.Time
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// foreign_keys is per connection; a single connection keeps cascades on.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts a run with its per-source results. A run without an ID
// gets a fresh UUID. The stored run is returned.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if s == nil || s.db == nil {
		return Run{}, errors.New("store is not initialized")
	}
	if strings.TrimSpace(run.Label) == "" {
		return Run{}, errors.New("label is required")
	}
	if run.StartedAt.IsZero() {
		return Run{}, errors.New("started_at is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin record transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, label, started_at, duration_ms, items, skipped, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Label,
		formatTime(run.StartedAt),
		run.Duration.Milliseconds(),
		run.Items,
		run.Skipped,
		run.Failed,
		nullString(run.Error),
	); err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	for i, sr := range run.Sources {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO source_results (run_id, position, source, url, items, skipped, duration_ms, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i,
			sr.Source,
			sr.URL,
			sr.Items,
			sr.Skipped,
			sr.Duration.Milliseconds(),
			nullString(sr.Error),
		); err != nil {
			_ = tx.Rollback()
			return Run{}, fmt.Errorf("insert source result %s: %w", sr.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first, with their sources.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, started_at, duration_ms, items, skipped, failed, error
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	index := make(map[string]int)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		index[run.ID] = len(runs)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(runs))
	placeholders := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ID)
		placeholders = append(placeholders, "?")
	}

	srows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT run_id, source, url, items, skipped, duration_ms, error
		FROM source_results
		WHERE run_id IN (%s)
		ORDER BY run_id, position
	`, strings.Join(placeholders, ",")), ids...)
	if err != nil {
		return nil, fmt.Errorf("query source results: %w", err)
	}
	defer func() { _ = srows.Close() }()

	for srows.Next() {
		var (
			runID    string
			sr       SourceResult
			duration int64
			errVal   sql.NullString
		)
		if err := srows.Scan(&runID, &sr.Source, &sr.URL, &sr.Items, &sr.Skipped, &duration, &errVal); err != nil {
			return nil, fmt.Errorf("scan source result: %w", err)
		}
		sr.Duration = time.Duration(duration) * time.Millisecond
		sr.Error = errVal.String
		if i, ok := index[runID]; ok {
			runs[i].Sources = append(runs[i].Sources, sr)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source results: %w", err)
	}

	return runs, nil
}

// PruneOld deletes runs older than retainDays. Source results cascade.
// Returns the number of runs removed.
func (s *Store) PruneOld(ctx context.Context, retainDays int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if retainDays <= 0 {
		return 0, nil
	}

	cutoff := formatTime(s.now().AddDate(0, 0, -retainDays))
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune old runs: %w", err)
	}

	n, _ := res.RowsAffected()
	return n, nil
}

// GetSourceHealth returns per-source fetch aggregates for runs since the
// given time, ordered by source name.
func (s *Store) GetSourceHealth(ctx context.Context, since time.Time) ([]SourceHealth, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sr.source,
			COUNT(*) AS fetches,
			SUM(CASE WHEN sr.error IS NOT NULL THEN 1 ELSE 0 END) AS failures,
			SUM(sr.items) AS items,
			MAX(CASE WHEN sr.error IS NULL THEN r.started_at END) AS last_ok,
			MAX(r.started_at) AS last_seen
		FROM source_results sr
		JOIN runs r ON r.id = sr.run_id
		WHERE r.started_at >= ?
		GROUP BY sr.source
		ORDER BY sr.source
	`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("get source health: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SourceHealth
	for rows.Next() {
		var (
			h        SourceHealth
			lastOK   sql.NullString
			lastSeen string
		)
		if err := rows.Scan(&h.Source, &h.Fetches, &h.Failures, &h.Items, &lastOK, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan source health: %w", err)
		}
		if h.LastOK, err = parseTime(lastOK.String); err != nil {
			return nil, fmt.Errorf("parse last_ok: %w", err)
		}
		if h.LastSeenAt, err = parseTime(lastSeen); err != nil {
			return nil, fmt.Errorf("parse last_seen: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source health: %w", err)
	}

	for i := range out {
		var msg sql.NullString
		err := s.db.QueryRowContext(ctx, `
			SELECT sr.error
			FROM source_results sr
			JOIN runs r ON r.id = sr.run_id
			WHERE sr.source = ? AND sr.error IS NOT NULL
			ORDER BY r.started_at DESC
			LIMIT 1
		`, out[i].Source).Scan(&msg)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("last error for %s: %w", out[i].Source, err)
		}
		out[i].LastError = msg.String
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (Run, error) {
	var (
		run       Run
		startedAt string
		duration  int64
		errVal    sql.NullString
	)

	if err := scanner.Scan(
		&run.ID,
		&run.Label,
		&startedAt,
		&duration,
		&run.Items,
		&run.Skipped,
		&run.Failed,
		&errVal,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	run.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.Duration = time.Duration(duration) * time.Millisecond
	run.Error = errVal.String

	return run, nil
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
