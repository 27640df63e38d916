// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     history
// Description: SQLite store recording analysis runs
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	mdwerror "github.com/msto63/minipas/foundation/core/error"
	"github.com/msto63/minipas/foundation/minipas"
	"github.com/msto63/minipas/foundation/minipas/symtab"
)

// Run is one recorded analysis
type Run struct {
	ID          string         `json:"id" yaml:"id"`
	Timestamp   time.Time      `json:"timestamp" yaml:"timestamp"`
	Source      string         `json:"source" yaml:"source"`
	SourceHash  string         `json:"source_hash" yaml:"source_hash"`
	Status      minipas.Status `json:"status" yaml:"status"`
	ErrorCount  int            `json:"error_count" yaml:"error_count"`
	SymbolCount int            `json:"symbol_count" yaml:"symbol_count"`
	Errors      []string       `json:"errors,omitempty" yaml:"errors,omitempty"`
	Symbols     []symtab.Entry `json:"symbols,omitempty" yaml:"symbols,omitempty"`
}

// Filter defines criteria for listing runs
type Filter struct {
	Source string
	Status minipas.Status
	Since  time.Time
	Limit  int
	Offset int
}

// Config holds configuration for the store
type Config struct {
	Path string
}

// Store persists analysis runs in SQLite
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens (and creates if needed) the history database at cfg.Path
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, mdwerror.New("history path is empty").WithCode(mdwerror.CodeInvalidConfig)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create history directory").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("path", cfg.Path)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open history database").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("path", cfg.Path)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize history schema").
			WithCode(mdwerror.CodeDatabaseError)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		source TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		error_count INTEGER NOT NULL,
		symbol_count INTEGER NOT NULL,
		errors TEXT,
		symbols TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// HashSource returns the hex SHA-256 of a source text
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// NewRun builds a Run from an analysis result
func NewRun(res *minipas.Result, source string) *Run {
	name := res.Name
	if name == "" {
		name = "<stdin>"
	}

	return &Run{
		Source:      name,
		SourceHash:  HashSource(source),
		Status:      res.Status,
		ErrorCount:  len(res.Diagnostics),
		SymbolCount: len(res.Symbols),
		Errors:      res.Errors(),
		Symbols:     res.Symbols,
	}
}

// Record stores run, assigning an id and timestamp when missing
func (s *Store) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = s.now().UTC()
	}

	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return mdwerror.Wrap(err, "failed to encode errors").WithCode(mdwerror.CodeInternal)
	}
	symbolsJSON, err := json.Marshal(run.Symbols)
	if err != nil {
		return mdwerror.Wrap(err, "failed to encode symbols").WithCode(mdwerror.CodeInternal)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, timestamp, source, source_hash, status, error_count, symbol_count, errors, symbols)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Timestamp, run.Source, run.SourceHash, string(run.Status),
		run.ErrorCount, run.SymbolCount, string(errorsJSON), string(symbolsJSON))
	if err != nil {
		return mdwerror.Wrap(err, "failed to insert run").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("id", run.ID)
	}

	return nil
}

const selectRuns = `SELECT id, timestamp, source, source_hash, status, error_count, symbol_count, errors, symbols FROM runs`

// List returns runs matching filter, newest first
func (s *Store) List(ctx context.Context, filter Filter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectRuns + ` WHERE 1=1`
	var args []interface{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, filter.Source)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to query runs").WithCode(mdwerror.CodeDatabaseError)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "failed to read runs").WithCode(mdwerror.CodeDatabaseError)
	}
	return runs, nil
}

// Get returns the run with id. A unique id prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mdwerror.New("run id is empty").WithCode(mdwerror.CodeInvalidInput)
	}

	// substr instead of LIKE so '%' and '_' in the argument match literally
	rows, err := s.db.QueryContext(ctx, selectRuns+` WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id = ? DESC LIMIT 2`,
		id, utf8.RuneCountInString(id), id, id)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to query run").WithCode(mdwerror.CodeDatabaseError)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "failed to read run").WithCode(mdwerror.CodeDatabaseError)
	}

	switch {
	case len(found) == 0:
		return nil, mdwerror.New(fmt.Sprintf("run %q not found", id)).
			WithCode(mdwerror.CodeNotFound).
			WithDetail("id", id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return nil, mdwerror.New(fmt.Sprintf("run id prefix %q is ambiguous", id)).
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("id", id)
	}
}

// Prune deletes runs older than olderThan and returns the number removed
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if olderThan < 0 {
		return 0, mdwerror.New("prune age must not be negative").
			WithCode(mdwerror.CodeValueOutOfRange).
			WithDetail("older_than", olderThan.String())
	}

	cutoff := s.now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, mdwerror.Wrap(err, "failed to prune runs").WithCode(mdwerror.CodeDatabaseError)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run                     Run
		status                  string
		errorsJSON, symbolsJSON sql.NullString
	)

	err := row.Scan(&run.ID, &run.Timestamp, &run.Source, &run.SourceHash, &status,
		&run.ErrorCount, &run.SymbolCount, &errorsJSON, &symbolsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, mdwerror.Wrap(err, "run not found").WithCode(mdwerror.CodeNotFound)
		}
		return nil, mdwerror.Wrap(err, "failed to scan run").WithCode(mdwerror.CodeDatabaseError)
	}
	run.Status = minipas.Status(status)

	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &run.Errors); err != nil {
			return nil, mdwerror.Wrap(err, "failed to decode errors").WithCode(mdwerror.CodeDatabaseError)
		}
	}
	if symbolsJSON.Valid && symbolsJSON.String != "" {
		if err := json.Unmarshal([]byte(symbolsJSON.String), &run.Symbols); err != nil {
			return nil, mdwerror.Wrap(err, "failed to decode symbols").WithCode(mdwerror.CodeDatabaseError)
		}
	}

	return &run, nil
}
