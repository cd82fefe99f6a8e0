package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"vidmerge/internal/config"
	"vidmerge/internal/merge"
)

// timeLayout is fixed-width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the run ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a run and returns its row id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	if err := run.validate(); err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	cameras, err := json.Marshal(run.Cameras)
	if err != nil {
		return 0, fmt.Errorf("encode cameras: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, session_id, backend, cameras, output_path,
            width, height, frames, outcome, error, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.SessionID,
		run.Backend,
		string(cameras),
		nullableString(run.OutputPath),
		run.Width,
		run.Height,
		run.Frames,
		string(run.Outcome),
		nullableString(run.Error),
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fetch run id: %w", err)
	}
	return id, nil
}

// Filter narrows List results.
type Filter struct {
	SessionID string
	// Limit caps the number of runs returned; <= 0 means no limit.
	Limit int
}

const runColumns = `id, run_id, session_id, backend, cameras, output_path,
    width, height, frames, outcome, error, started_at, finished_at`

// List returns recorded runs, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if filter.SessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, filter.SessionID)
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		cameras     string
		outputPath  sql.NullString
		outcome     string
		errText     sql.NullString
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.SessionID,
		&run.Backend,
		&cameras,
		&outputPath,
		&run.Width,
		&run.Height,
		&run.Frames,
		&outcome,
		&errText,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(cameras), &run.Cameras); err != nil {
		return Run{}, fmt.Errorf("decode cameras for run %s: %w", run.RunID, err)
	}
	run.OutputPath = outputPath.String
	run.Outcome = merge.Outcome(outcome)
	run.Error = errText.String
	var err error
	if run.StartedAt, err = time.Parse(timeLayout, startedRaw); err != nil {
		return Run{}, fmt.Errorf("parse started_at for run %s: %w", run.RunID, err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finishedRaw); err != nil {
		return Run{}, fmt.Errorf("parse finished_at for run %s: %w", run.RunID, err)
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
