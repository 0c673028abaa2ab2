// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for catalog searches.
type QueryOptions struct {
	// Query is an FTS5 match expression over item text in both locales.
	Query string

	// Kind filters by item type.
	Kind string

	// Tag filters to items carrying the tag.
	Tag string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Result is one catalog hit.
type Result struct {
	ID       string   `json:"id" yaml:"id"`
	Kind     string   `json:"kind" yaml:"kind"`
	TitleEN  string   `json:"title_en" yaml:"title_en"`
	TitleKR  string   `json:"title_kr" yaml:"title_kr"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Priority int      `json:"priority" yaml:"priority"`
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Search queries the catalog. Text queries are ordered by FTS rank;
// filter-only queries by priority, then ID.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT i.id, i.kind, i.title_en, i.title_kr, i.tags, i.priority, i.source
			FROM items_fts
			JOIN items i ON i.rowid = items_fts.rowid
			WHERE items_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT i.id, i.kind, i.title_en, i.title_kr, i.tags, i.priority, i.source
			FROM items i
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND i.kind = ?`)
		args = append(args, opts.Kind)
	}
	if opts.Tag != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(i.tags) WHERE value = ?)`)
		args = append(args, opts.Tag)
	}

	if useFTS {
		qb.WriteString(` ORDER BY items_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY i.priority, i.id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			titleEN  sql.NullString
			titleKR  sql.NullString
			tagsJSON sql.NullString
			source   sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Kind, &titleEN, &titleKR, &tagsJSON, &r.Priority, &source); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.TitleEN = titleEN.String
		r.TitleKR = titleKR.String
		r.Source = source.String
		if tagsJSON.Valid {
			if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
				return nil, fmt.Errorf("decoding tags of %s: %w", r.ID, err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of indexed items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}
