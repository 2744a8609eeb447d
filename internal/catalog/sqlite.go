package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uigen/patternmatch/internal/vecstore"
	"github.com/uigen/patternmatch/pkg/types"
)

// SQLiteSource loads the pattern catalog from a SQLite database provisioned
// by the ingestion pipeline. Expected schema:
//
//	CREATE TABLE patterns (
//		id          TEXT PRIMARY KEY,
//		name        TEXT NOT NULL,
//		text_corpus TEXT NOT NULL DEFAULT '',
//		keywords    TEXT,            -- JSON array, optional
//		embedding   BLOB             -- float32 little-endian, optional
//	);
//
// This source is read-only; the retrieval engine never writes to it.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens a catalog database. The driver follows the same
// build-tag selection as the vector store.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open(vecstore.DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteSource{db: db}, nil
}

// LoadPatterns reads and normalizes every catalog row.
func (s *SQLiteSource) LoadPatterns(ctx context.Context) ([]types.Pattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, text_corpus, keywords, embedding FROM patterns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []types.Pattern
	for rows.Next() {
		var p types.Pattern
		var keywords sql.NullString
		var embedding []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.TextCorpus, &keywords, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}

		if keywords.Valid && keywords.String != "" {
			if err := json.Unmarshal([]byte(keywords.String), &p.Keywords); err != nil {
				return nil, fmt.Errorf("pattern %s: malformed keywords: %w", p.ID, err)
			}
		}
		if len(embedding) > 0 {
			p.Embedding = vecstore.DeserializeVector(embedding)
		}

		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return Normalize(patterns)
}

// Close closes the catalog database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
