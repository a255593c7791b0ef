package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lhdiff/lhdiff/internal/domain"
	_ "modernc.org/sqlite" // SQLite driver
)

// DBFile is the database file name inside the history directory.
const DBFile = "lhdiff.db"

// Store implements domain.RunHistory on a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	path := filepath.Join(dir, DBFile)

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: path}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		commit_hash TEXT,
		pages INTEGER NOT NULL,
		avg_diff REAL NOT NULL,
		verdict TEXT NOT NULL,
		run_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save stores a run summary with the full run as JSON and returns its id.
func (s *Store) Save(ctx context.Context, run *domain.ComparisonRun) (int64, error) {
	if run == nil {
		return 0, fmt.Errorf("nil run")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run: %w", err)
	}

	ts := run.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (mode, timestamp, commit_hash, pages, avg_diff, verdict, run_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(run.Mode),
		ts.UTC().Format(time.RFC3339Nano),
		run.CommitHash,
		len(run.Pages),
		run.OverallAverage(),
		string(run.Verdict()),
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// List returns stored runs oldest first. An empty mode matches every mode;
// limit <= 0 returns all rows, otherwise the most recent limit rows.
func (s *Store) List(ctx context.Context, mode domain.Mode, limit int) ([]domain.RunEntry, error) {
	query := `SELECT id, mode, timestamp, commit_hash, pages, avg_diff, verdict FROM runs`
	var args []any
	if mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, string(mode))
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.RunEntry
	for rows.Next() {
		var (
			e      domain.RunEntry
			m, ts  string
			commit sql.NullString
			v      string
		)
		if err := rows.Scan(&e.ID, &m, &ts, &commit, &e.Pages, &e.AvgDiff, &v); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		e.Mode = domain.Mode(m)
		e.Verdict = domain.Verdict(v)
		e.CommitHash = commit.String
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Load returns the full stored run for id.
func (s *Store) Load(ctx context.Context, id int64) (*domain.ComparisonRun, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT run_json FROM runs WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %d not found", id)
		}
		return nil, fmt.Errorf("failed to load run %d: %w", id, err)
	}
	var run domain.ComparisonRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %d: %w", id, err)
	}
	return &run, nil
}
