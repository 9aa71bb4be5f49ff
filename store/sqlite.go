package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/moda-xyz/go-moda/compiler"
)

// SQLiteStore persists records in a SQLite database. The full report is kept
// as a JSON payload; query columns are duplicated for indexing.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) a SQLite database at the given path.
// Use ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		run_id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		hash TEXT NOT NULL,
		status TEXT NOT NULL,
		balanced INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_model ON reports(model, created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_hash ON reports(hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save persists a record.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	payload, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (run_id, model, hash, status, balanced, created_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Model, rec.Hash, rec.Status, boolToInt(rec.Balanced),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("save report %s: %w", rec.RunID, err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *SQLiteStore) Load(ctx context.Context, runID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, model, hash, status, balanced, created_at, payload
		 FROM reports WHERE run_id = ?`, runID)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", runID, err)
	}
	return rec, nil
}

// List returns records for a model, newest first.
func (s *SQLiteStore) List(ctx context.Context, model string) ([]*Record, error) {
	query := `SELECT run_id, model, hash, status, balanced, created_at, payload
	          FROM reports`
	args := []any{}
	if model != "" {
		query += ` WHERE model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY created_at DESC, run_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		balanced  int
		createdAt string
		payload   string
	)
	if err := row.Scan(&rec.RunID, &rec.Model, &rec.Hash, &rec.Status, &balanced, &createdAt, &payload); err != nil {
		return nil, err
	}
	rec.Balanced = balanced != 0

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	rec.CreatedAt = ts

	var report compiler.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	rec.Report = &report
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
