// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry records which publications already have registry
// entries. The curated set is kept in SQLite and filled either from the
// bioregistry export or by hand.
package registry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

const table = "curated"

// Sources of a curated mark.
const (
	SourceImport = "import"
	SourceManual = "manual"
)

// Publication is one curated publication.
type Publication struct {
	Identifier types.Identifier `json:"identifier"`
	Prefix     string           `json:"prefix,omitempty"`
	Source     string           `json:"source"`
	CuratedAt  time.Time        `json:"curatedAt"`
}

// Store manages the curated-publication SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	s, err := NewStore(context.Background(), db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database and ensures the schema exists.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.createSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "creating schema")
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS curated (
			pmid TEXT PRIMARY KEY,
			prefix TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			curated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_curated_prefix ON curated(prefix)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// upsert builds an insert that refreshes prefix, source and time when the
// publication is already present.
func upsert(pubs []Publication) (string, []any, error) {
	q := sq.Insert(table).Columns("pmid", "prefix", "source", "curated_at")
	for _, p := range pubs {
		q = q.Values(string(p.Identifier), p.Prefix, p.Source, p.CuratedAt.UTC().Format(time.RFC3339))
	}
	return q.Suffix(`ON CONFLICT(pmid) DO UPDATE SET
		prefix = CASE WHEN excluded.prefix != '' THEN excluded.prefix ELSE curated.prefix END,
		source = excluded.source,
		curated_at = excluded.curated_at`).ToSql()
}

// MarkCurated records one publication as curated.
func (s *Store) MarkCurated(ctx context.Context, p Publication) error {
	if p.CuratedAt.IsZero() {
		p.CuratedAt = time.Now()
	}
	query, args, err := upsert([]Publication{p})
	if err != nil {
		return errors.Wrap(err, "building insert")
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "marking %s curated", p.Identifier)
	}
	return nil
}

// batchSize keeps multi-row inserts under SQLite's bound-parameter limit.
const batchSize = 200

// MarkCuratedBatch records many publications in one transaction and
// returns how many distinct identifiers were written. When an identifier
// repeats, its first occurrence is kept.
func (s *Store) MarkCuratedBatch(ctx context.Context, pubs []Publication) (int, error) {
	pubs = dedupe(pubs)
	if len(pubs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	now := time.Now()
	for start := 0; start < len(pubs); start += batchSize {
		end := min(start+batchSize, len(pubs))
		chunk := make([]Publication, end-start)
		copy(chunk, pubs[start:end])
		for i := range chunk {
			if chunk[i].CuratedAt.IsZero() {
				chunk[i].CuratedAt = now
			}
		}
		query, args, err := upsert(chunk)
		if err != nil {
			return 0, errors.Wrap(err, "building insert")
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, errors.Wrap(err, "inserting curated publications")
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing curated publications")
	}
	return len(pubs), nil
}

func dedupe(pubs []Publication) []Publication {
	seen := make(map[types.Identifier]bool, len(pubs))
	out := make([]Publication, 0, len(pubs))
	for _, p := range pubs {
		if seen[p.Identifier] {
			continue
		}
		seen[p.Identifier] = true
		out = append(out, p)
	}
	return out
}

// CuratedSet returns every curated identifier.
func (s *Store) CuratedSet(ctx context.Context) (map[types.Identifier]struct{}, error) {
	query, args, err := sq.Select("pmid").From(table).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying curated set")
	}
	defer rows.Close()

	set := map[types.Identifier]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning curated row")
		}
		set[types.Identifier(id)] = struct{}{}
	}
	return set, errors.Wrap(rows.Err(), "iterating curated set")
}

// ListOptions filters List.
type ListOptions struct {
	Prefix string
	Source string
	Limit  uint64
}

// List returns curated publications, most recent first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Publication, error) {
	q := sq.Select("pmid", "prefix", "source", "curated_at").
		From(table).
		OrderBy("curated_at DESC", "pmid")
	if opts.Prefix != "" {
		q = q.Where(sq.Eq{"prefix": opts.Prefix})
	}
	if opts.Source != "" {
		q = q.Where(sq.Eq{"source": opts.Source})
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing curated publications")
	}
	defer rows.Close()

	var out []Publication
	for rows.Next() {
		var (
			p  Publication
			id string
			at string
		)
		if err := rows.Scan(&id, &p.Prefix, &p.Source, &at); err != nil {
			return nil, errors.Wrap(err, "scanning curated row")
		}
		p.Identifier = types.Identifier(id)
		if p.CuratedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, errors.Wrapf(err, "parsing curated_at for %s", id)
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterating curated publications")
}
