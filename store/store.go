// Package store persists compilation reports. Two implementations share one
// interface: an in-memory store for tests and short-lived tooling, and a
// SQLite store for a workspace's report history.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/moda-xyz/go-moda/compiler"
)

// ErrNotFound is returned when no report matches the requested run ID.
var ErrNotFound = errors.New("report not found")

// Record is one stored compilation report with its query columns lifted out
// of the JSON payload.
type Record struct {
	RunID     string           `json:"run_id"`
	Model     string           `json:"model"`
	Hash      string           `json:"hash"`
	Status    string           `json:"status"`
	Balanced  bool             `json:"balanced"`
	CreatedAt time.Time        `json:"created_at"`
	Report    *compiler.Report `json:"report"`
}

// Store persists and retrieves compilation records.
type Store interface {
	// Save persists a record. Saving the same run ID twice is an error.
	Save(ctx context.Context, rec *Record) error

	// Load retrieves a record by run ID, or ErrNotFound.
	Load(ctx context.Context, runID string) (*Record, error)

	// List returns records for a model, newest first. An empty model name
	// lists everything.
	List(ctx context.Context, model string) ([]*Record, error)

	// Close releases underlying resources.
	Close() error
}

// NewRecord builds a record from a report.
func NewRecord(report *compiler.Report) *Record {
	return &Record{
		RunID:     report.Metadata.RunID,
		Model:     report.Model.Name,
		Hash:      report.Model.Hash,
		Status:    report.Metadata.Status,
		Balanced:  report.Balance.IsBalanced,
		CreatedAt: report.Metadata.Timestamp,
		Report:    report,
	}
}
