// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists conversion outcomes in a SQLite database under
// the target tree, one row per source document. Re-runs update rows in
// place, so the ledger always reflects the latest attempt per file.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bkhodirov/fileconv/pkg/types"
)

const dbFile = "fileconv.db"

// Record is one conversion or copy outcome.
type Record struct {
	SourcePath string                 `json:"source_path" yaml:"source_path"`
	OutputPath string                 `json:"output_path" yaml:"output_path"`
	Format     types.Format           `json:"format" yaml:"format"`
	Backend    string                 `json:"backend,omitempty" yaml:"backend,omitempty"`
	Status     types.ConversionStatus `json:"status" yaml:"status"`
	Error      string                 `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64                  `json:"duration_ms" yaml:"duration_ms"`
	SourceMod  time.Time              `json:"source_mod_time" yaml:"source_mod_time"`
	RecordedAt time.Time              `json:"recorded_at" yaml:"recorded_at"`
}

// Store manages the ledger SQLite database.
type Store struct {
	db         *sql.DB
	targetDir  string
	maxResults int
}

// NewStore opens or creates the ledger database at targetDir/fileconv.db.
// It creates the schema if it does not exist.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	dbPath := filepath.Join(cfg.TargetDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, targetDir: cfg.TargetDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			source_path TEXT PRIMARY KEY,
			output_path TEXT NOT NULL,
			format TEXT NOT NULL,
			backend TEXT,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			source_mod_time TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_format ON conversions(format)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts one outcome, keyed by source path.
func (s *Store) Record(ctx context.Context, r Record) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}
	modStr := ""
	if !r.SourceMod.IsZero() {
		modStr = r.SourceMod.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
			(source_path, output_path, format, backend, status, error, duration_ms, source_mod_time, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET
			output_path=excluded.output_path, format=excluded.format,
			backend=excluded.backend, status=excluded.status,
			error=excluded.error, duration_ms=excluded.duration_ms,
			source_mod_time=excluded.source_mod_time, recorded_at=excluded.recorded_at`,
		r.SourcePath, r.OutputPath, string(r.Format), r.Backend, string(r.Status),
		r.Error, r.DurationMS, modStr, r.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", r.SourcePath, err)
	}
	return nil
}

// RecordAll upserts a batch of outcomes in one transaction.
func (s *Store) RecordAll(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conversions
			(source_path, output_path, format, backend, status, error, duration_ms, source_mod_time, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET
			output_path=excluded.output_path, format=excluded.format,
			backend=excluded.backend, status=excluded.status,
			error=excluded.error, duration_ms=excluded.duration_ms,
			source_mod_time=excluded.source_mod_time, recorded_at=excluded.recorded_at`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.RecordedAt.IsZero() {
			r.RecordedAt = time.Now().UTC()
		}
		modStr := ""
		if !r.SourceMod.IsZero() {
			modStr = r.SourceMod.UTC().Format(time.RFC3339Nano)
		}
		_, err := stmt.ExecContext(ctx,
			r.SourcePath, r.OutputPath, string(r.Format), r.Backend, string(r.Status),
			r.Error, r.DurationMS, modStr, r.RecordedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("recording %s: %w", r.SourcePath, err)
		}
	}
	return tx.Commit()
}

// QueryOptions holds filters for ledger history queries.
type QueryOptions struct {
	// Status filters by outcome status.
	Status types.ConversionStatus

	// Format filters by source format.
	Format types.Format

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// History returns records matching the filters, most recent first.
func (s *Store) History(ctx context.Context, opts QueryOptions) ([]Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT source_path, output_path, format, backend, status, error,
			duration_ms, source_mod_time, recorded_at
		FROM conversions WHERE 1=1`)
	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Format != "" {
		qb.WriteString(` AND format = ?`)
		args = append(args, string(opts.Format))
	}
	qb.WriteString(` ORDER BY recorded_at DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec              Record
			format, status   string
			modStr, recStr   string
			backend, errText sql.NullString
		)
		if err := rows.Scan(&rec.SourcePath, &rec.OutputPath, &format, &backend,
			&status, &errText, &rec.DurationMS, &modStr, &recStr); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.Format = types.Format(format)
		rec.Status = types.ConversionStatus(status)
		rec.Backend = backend.String
		rec.Error = errText.String
		if modStr != "" {
			rec.SourceMod, _ = time.Parse(time.RFC3339Nano, modStr)
		}
		rec.RecordedAt, _ = time.Parse(time.RFC3339Nano, recStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Summary returns per-status counts across the whole ledger.
func (s *Store) Summary(ctx context.Context) (map[types.ConversionStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM conversions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.ConversionStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		counts[types.ConversionStatus(status)] = n
	}
	return counts, rows.Err()
}
