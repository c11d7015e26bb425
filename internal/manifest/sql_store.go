package manifest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "modernc.org/sqlite"
)

const (
	runsTable  = "dashgen_runs"
	pathsTable = "dashgen_paths"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + runsTable + ` (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		id            TEXT NOT NULL UNIQUE,
		project       TEXT NOT NULL,
		kind          TEXT NOT NULL,
		entities      TEXT NOT NULL DEFAULT '[]',
		paths         TEXT NOT NULL DEFAULT '[]',
		action_count  INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		created_at    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_project_time ON ` + runsTable + ` (project, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS ` + pathsTable + ` (
		project TEXT NOT NULL,
		path    TEXT NOT NULL,
		run_id  TEXT NOT NULL,
		PRIMARY KEY (project, path)
	)`,
}

// SQLStore implements Store on SQLite through ent's dialect/sql layer.
type SQLStore struct {
	drv *entsql.Driver
}

// NewSQLStore creates a store over an open SQLite database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{drv: entsql.OpenDB(dialect.SQLite, db)}
}

// Open opens the SQLite database at dsn and creates the manifest tables.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	s := NewSQLStore(db)
	if err := s.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.drv.Close()
}

// CreateTables creates the manifest tables if they do not exist yet.
func (s *SQLStore) CreateTables(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("manifest: create tables: %w", err)
		}
	}
	return nil
}

// RecordRun inserts the run and its paths in one transaction. Paths already
// recorded for the project keep their original run id.
func (s *SQLStore) RecordRun(ctx context.Context, run Run) error {
	entities, err := json.Marshal(nonNil(run.Entities))
	if err != nil {
		return fmt.Errorf("manifest: encode entities: %w", err)
	}
	paths, err := json.Marshal(nonNil(run.Paths))
	if err != nil {
		return fmt.Errorf("manifest: encode paths: %w", err)
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("manifest: begin: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(runsTable).
		Columns("id", "project", "kind", "entities", "paths", "action_count", "warning_count", "created_at").
		Values(run.ID, run.Project, string(run.Kind), string(entities), string(paths),
			run.ActionCount, run.WarningCount, run.CreatedAt.UnixNano()).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("manifest: insert run %s: %w", run.ID, err)
	}

	if len(run.Paths) > 0 {
		ins := entsql.Dialect(dialect.SQLite).
			Insert(pathsTable).
			Columns("project", "path", "run_id")
		for _, p := range run.Paths {
			ins.Values(run.Project, p, run.ID)
		}
		query, args := ins.OnConflict(entsql.DoNothing()).Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("manifest: insert paths for %s: %w", run.ID, err)
		}
	}
	return tx.Commit()
}

// Runs returns the runs recorded for project, newest first. Runs recorded
// within the same nanosecond come back in reverse insertion order.
func (s *SQLStore) Runs(ctx context.Context, project string) ([]Run, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "project", "kind", "entities", "paths", "action_count", "warning_count", "created_at").
		From(entsql.Table(runsTable)).
		Where(entsql.EQ("project", project)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("seq")).
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("manifest: query runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var (
			r               Run
			kind            string
			entities, paths string
			createdAt       int64
		)
		if err := rows.Scan(&r.ID, &r.Project, &kind, &entities, &paths,
			&r.ActionCount, &r.WarningCount, &createdAt); err != nil {
			return nil, fmt.Errorf("manifest: scan run: %w", err)
		}
		r.Kind = Kind(kind)
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		if err := json.Unmarshal([]byte(entities), &r.Entities); err != nil {
			return nil, fmt.Errorf("manifest: decode entities of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(paths), &r.Paths); err != nil {
			return nil, fmt.Errorf("manifest: decode paths of %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Paths returns every path recorded for project, sorted.
func (s *SQLStore) Paths(ctx context.Context, project string) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("path").
		From(entsql.Table(pathsTable)).
		Where(entsql.EQ("project", project)).
		OrderBy("path").
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("manifest: query paths: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("manifest: scan path: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
