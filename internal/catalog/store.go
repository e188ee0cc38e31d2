// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records the files each run produces in a SQLite index
// so charts, decks and Markdown can be traced back to the command that
// wrote them.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/hpl-deck/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "artifacts.db"
)

// DefaultDir is the catalog root when none is configured.
const DefaultDir = "output"

// Store manages the artifact catalog database.
type Store struct {
	db  *sql.DB
	dir string
	now func() time.Time
}

// Open opens or creates the catalog at cfg.Dir/index/artifacts.db and
// creates the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	dbDir := filepath.Join(dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, now: time.Now}
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

// IndexDir is where the database and exports live.
func (s *Store) IndexDir() string {
	return filepath.Join(s.dir, indexDir)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			args TEXT,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			sha256 TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_kind ON artifacts(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_path ON artifacts(path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run identifies one CLI invocation.
type Run struct {
	ID        string
	Command   string
	Args      []string
	StartedAt time.Time
}

// NewRun starts a run with a fresh UUID.
func NewRun(command string, args []string) Run {
	return Run{ID: uuid.NewString(), Command: command, Args: args, StartedAt: time.Now().UTC()}
}

// Record hashes each file in paths and stores it as an artifact of run.
// The run row is created on first use. All rows are written in one
// transaction; a missing file aborts the whole record.
func (s *Store) Record(ctx context.Context, run Run, kind types.ArtifactKind, paths []string) ([]types.Artifact, error) {
	arts := make([]types.Artifact, 0, len(paths))
	for _, p := range paths {
		a, err := describe(p)
		if err != nil {
			return nil, err
		}
		a.RunID, a.Kind, a.Command = run.ID, kind, run.Command
		a.CreatedAt = s.now().UTC().Truncate(time.Second)
		arts = append(arts, a)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (id, command, args, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Command, strings.Join(run.Args, " "), run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO artifacts (run_id, kind, path, bytes, sha256, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range arts {
		_, err := stmt.ExecContext(ctx, a.RunID, string(a.Kind), a.Path, a.Bytes, a.SHA256, a.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("inserting artifact %s: %w", a.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return arts, nil
}

// describe stats and hashes one file.
func describe(path string) (types.Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Artifact{}, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return types.Artifact{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return types.Artifact{Path: path, Bytes: n, SHA256: hex.EncodeToString(h.Sum(nil))}, nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind    types.ArtifactKind
	Command string
	RunID   string
	// Limit caps the number of rows (default 1000).
	Limit int
}

const defaultLimit = 1000

// List returns artifacts newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]types.Artifact, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "a.kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Command != "" {
		where = append(where, "r.command = ?")
		args = append(args, f.Command)
	}
	if f.RunID != "" {
		where = append(where, "a.run_id = ?")
		args = append(args, f.RunID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := `SELECT a.run_id, a.kind, a.path, a.bytes, a.sha256, r.command, a.created_at
		FROM artifacts a JOIN runs r ON r.id = a.run_id`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY a.created_at DESC, a.rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var out []types.Artifact
	for rows.Next() {
		var (
			a       types.Artifact
			kind    string
			created string
		)
		if err := rows.Scan(&a.RunID, &kind, &a.Path, &a.Bytes, &a.SHA256, &a.Command, &created); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		a.Kind = types.ArtifactKind(kind)
		if a.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
