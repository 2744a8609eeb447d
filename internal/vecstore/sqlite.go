package vecstore

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteIndex persists pattern embeddings in SQLite so the vector index
// survives process restarts. Vectors are stored as float32 little-endian
// blobs; similarity is computed in Go after loading candidates.
type SQLiteIndex struct {
	db *sql.DB
}

const embeddingSchema = `
CREATE TABLE IF NOT EXISTS pattern_embeddings (
	pattern_id TEXT PRIMARY KEY,
	vector     BLOB NOT NULL,
	dimension  INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// NewSQLiteIndex opens (or creates) a SQLite-backed vector index at dbPath.
// Use ":memory:" for an ephemeral index.
func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL improves concurrent reader behavior; SQLite prefers one writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(embeddingSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// Upsert stores or replaces the embedding for a pattern.
func (s *SQLiteIndex) Upsert(ctx context.Context, patternID string, vector []float32) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pattern_embeddings (pattern_id, vector, dimension, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(pattern_id) DO UPDATE SET
			vector = excluded.vector,
			dimension = excluded.dimension,
			updated_at = CURRENT_TIMESTAMP`,
		patternID, SerializeVector(vector), len(vector))
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

// NearestNeighbors loads all stored vectors and ranks them by cosine
// similarity in Go. Rows with a dimension differing from the query vector
// score 0 rather than failing the whole search.
func (s *SQLiteIndex) NearestNeighbors(ctx context.Context, vector []float32, topN int) ([]Neighbor, error) {
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}
	if topN <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT pattern_id, vector FROM pattern_embeddings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var neighbors []Neighbor
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		neighbors = append(neighbors, Neighbor{
			PatternID:  id,
			Similarity: CosineSimilarity(vector, DeserializeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rankNeighbors(neighbors, topN), nil
}

// Count returns the number of stored embeddings.
func (s *SQLiteIndex) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pattern_embeddings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
