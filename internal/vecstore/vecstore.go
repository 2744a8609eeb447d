package vecstore

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"sort"
)

var (
	// ErrDimensionMismatch is returned when a vector's length differs from
	// the vectors already stored in the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmptyVector is returned for zero-length vectors.
	ErrEmptyVector = errors.New("vector cannot be empty")
)

// Neighbor is one nearest-neighbor result: a pattern and its cosine
// similarity to the query vector.
type Neighbor struct {
	PatternID  string
	Similarity float64
}

// VectorIndex stores pattern embeddings and answers nearest-neighbor
// queries. Implementations must be safe for concurrent use.
type VectorIndex interface {
	// Upsert stores or replaces the embedding for a pattern.
	Upsert(ctx context.Context, patternID string, vector []float32) error

	// NearestNeighbors returns up to topN patterns ordered by similarity
	// descending, ties broken by pattern ID ascending.
	NearestNeighbors(ctx context.Context, vector []float32, topN int) ([]Neighbor, error)

	// Count returns the number of stored embeddings.
	Count(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}

// CosineSimilarity computes the cosine similarity between two vectors,
// bounded to [-1, 1]. Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SerializeVector converts a float32 slice to a little-endian byte blob for
// storage.
func SerializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// DeserializeVector converts a byte blob back to a float32 slice.
func DeserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}

// rankNeighbors sorts neighbors by similarity descending, pattern ID
// ascending, and truncates to topN.
func rankNeighbors(neighbors []Neighbor, topN int) []Neighbor {
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].PatternID < neighbors[j].PatternID
	})

	if topN >= 0 && len(neighbors) > topN {
		neighbors = neighbors[:topN]
	}
	return neighbors
}
