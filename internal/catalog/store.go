// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a local SQLite index of CV items so that IDs can be
// found by text, kind or tag while authoring profiles. The index is derived
// from the item files and can be deleted and rebuilt at any time.
//
// Full-text search needs SQLite's FTS5 module, which mattn/go-sqlite3 only
// compiles in with the sqlite_fts5 build tag:
//
//	go build -tags sqlite_fts5 ./cmd/cv-builder
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/pkg/types"
)

const dbFile = "catalog.db"

const defaultMaxResults = 20

// FTS5Tag is the build tag that enables FTS5 in the SQLite driver.
const FTS5Tag = "sqlite_fts5"

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates <IndexDir>/catalog.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			title_en TEXT,
			title_kr TEXT,
			content TEXT NOT NULL,
			tags TEXT,
			priority INTEGER NOT NULL DEFAULT 0,
			source TEXT,
			digest TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_kind ON items(kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='items_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE items_fts USING fts5(content, content=items, content_rowid=rowid)`,
		`CREATE TRIGGER items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			INSERT INTO items_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", explainFTS(err))
		}
	}
	return nil
}

// explainFTS names the missing build tag when SQLite was compiled without FTS5.
func explainFTS(err error) error {
	if strings.Contains(err.Error(), "no such module: fts5") {
		return fmt.Errorf("%w (rebuild with -tags %s)", err, FTS5Tag)
	}
	return err
}

// IndexSummary holds counts from an indexing run.
type IndexSummary struct {
	Indexed int
	Updated int
	Skipped int
	Removed int
	Failed  int
}

// Total returns the number of items processed, removals excluded.
func (s IndexSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// row is the indexed form of one item.
type row struct {
	id, kind         string
	titleEN, titleKR string
	content          string
	tags             string
	priority         int
	source           string
	digest           string
}

func toRow(item *types.Item) (row, error) {
	payload, err := item.Payload()
	if err != nil {
		return row{}, err
	}
	// The digest covers authored content only; sidecar metadata changes
	// independently of it.
	authored := *item
	authored.Metadata = types.ItemMetadata{}
	raw, err := yaml.Marshal(&authored)
	if err != nil {
		return row{}, fmt.Errorf("hashing item: %w", err)
	}
	tags, _ := json.Marshal(item.Tags)

	en, kr := payload.Texts(types.LocaleEN), payload.Texts(types.LocaleKR)
	return row{
		id:       item.ID,
		kind:     item.Type,
		titleEN:  first(en),
		titleKR:  first(kr),
		content:  strings.Join(append(en, kr...), "\n"),
		tags:     string(tags),
		priority: item.Priority,
		source:   item.Source,
		digest:   fmt.Sprintf("%x", sha256.Sum256(raw)),
	}, nil
}

func first(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}

// Index brings the catalog in line with items. Unchanged items are skipped
// by content digest, and items no longer present are removed. Repeated IDs
// after the first and items whose data cannot be decoded are counted as
// failures. One progress line per item is written to w.
func (s *Store) Index(ctx context.Context, items []*types.Item, w io.Writer) (IndexSummary, error) {
	stored, err := s.digests(ctx)
	if err != nil {
		return IndexSummary{}, err
	}

	var summary IndexSummary
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if seen[item.ID] {
			fmt.Fprintf(w, "failed   %s: duplicate id\n", item.ID)
			summary.Failed++
			continue
		}
		seen[item.ID] = true

		r, err := toRow(item)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", item.ID, err)
			summary.Failed++
			continue
		}

		prev, exists := stored[item.ID]
		if exists && prev == r.digest {
			summary.Skipped++
			continue
		}

		if err := s.upsert(ctx, r); err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", item.ID, err)
			summary.Failed++
			continue
		}
		if exists {
			fmt.Fprintf(w, "updated  %s\n", item.ID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed  %s\n", item.ID)
			summary.Indexed++
		}
	}

	for id := range stored {
		if seen[id] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return summary, fmt.Errorf("removing %s: %w", id, err)
		}
		fmt.Fprintf(w, "removed  %s\n", id)
		summary.Removed++
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, removed: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Removed, summary.Failed)
	return summary, nil
}

func (s *Store) digests(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, digest FROM items`)
	if err != nil {
		return nil, fmt.Errorf("reading index state: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, digest string
		if err := rows.Scan(&id, &digest); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out[id] = digest
	}
	return out, rows.Err()
}

func (s *Store) upsert(ctx context.Context, r row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, kind, title_en, title_kr, content, tags, priority, source, digest)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, title_en=excluded.title_en, title_kr=excluded.title_kr,
			content=excluded.content, tags=excluded.tags, priority=excluded.priority,
			source=excluded.source, digest=excluded.digest`,
		r.id, r.kind, r.titleEN, r.titleKR, r.content, r.tags, r.priority, r.source, r.digest,
	)
	if err != nil {
		return fmt.Errorf("upserting item: %w", err)
	}
	return nil
}
