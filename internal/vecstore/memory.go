package vecstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryIndex is an in-memory vector index with exhaustive cosine search.
// Safe for concurrent readers and writers.
type MemoryIndex struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	dim     int
}

// NewMemoryIndex creates an empty in-memory vector index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		vectors: make(map[string][]float32),
	}
}

// Upsert stores or replaces the embedding for a pattern. The first stored
// vector fixes the index dimension.
func (m *MemoryIndex) Upsert(ctx context.Context, patternID string, vector []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vector) == 0 {
		return ErrEmptyVector
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dim == 0 {
		m.dim = len(vector)
	} else if len(vector) != m.dim {
		return fmt.Errorf("%w: got %d, index holds %d", ErrDimensionMismatch, len(vector), m.dim)
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)
	m.vectors[patternID] = stored
	return nil
}

// NearestNeighbors scans all stored vectors and returns the topN most
// similar, ordered by similarity descending then pattern ID ascending.
func (m *MemoryIndex) NearestNeighbors(ctx context.Context, vector []float32, topN int) ([]Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}
	if topN <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	neighbors := make([]Neighbor, 0, len(m.vectors))
	for id, stored := range m.vectors {
		neighbors = append(neighbors, Neighbor{
			PatternID:  id,
			Similarity: CosineSimilarity(vector, stored),
		})
	}
	m.mu.RUnlock()

	return rankNeighbors(neighbors, topN), nil
}

// Count returns the number of stored embeddings.
func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors), nil
}

// Close is a no-op for the in-memory index.
func (m *MemoryIndex) Close() error {
	return nil
}
