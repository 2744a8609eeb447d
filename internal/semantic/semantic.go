// Package semantic implements embedding-based pattern retrieval.
//
// The retriever wraps two external collaborators: an embedding provider and
// a vector index. Both sit behind network boundaries in production, so every
// search carries a timeout and any failure is reported as
// types.ErrRetrieverUnavailable for the engine to apply its fallback policy.
package semantic

import (
	"context"
	"fmt"
	"time"

	"github.com/uigen/patternmatch/internal/embedder"
	"github.com/uigen/patternmatch/internal/vecstore"
	"github.com/uigen/patternmatch/pkg/types"
)

// DefaultTimeout bounds one semantic search: one embedding round-trip plus
// one nearest-neighbor query.
const DefaultTimeout = 5 * time.Second

// Retriever performs conceptual matching: it embeds the raw query text and
// ranks catalog patterns by cosine similarity.
type Retriever struct {
	embedder embedder.Embedder
	index    vecstore.VectorIndex
	timeout  time.Duration
}

// New creates a semantic retriever. A non-positive timeout selects
// DefaultTimeout.
func New(emb embedder.Embedder, index vecstore.VectorIndex, timeout time.Duration) *Retriever {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Retriever{
		embedder: emb,
		index:    index,
		timeout:  timeout,
	}
}

// Search embeds rawText and returns up to topN similarity-scored candidates.
//
// Provider or index failures (including the per-call timeout) are wrapped in
// types.ErrRetrieverUnavailable. Cancellation of the caller's context
// propagates as the context error instead, so the engine can tell a dead
// collaborator from an abandoned request.
func (r *Retriever) Search(ctx context.Context, rawText string, topN int) ([]types.ScoredCandidate, error) {
	if topN <= 0 {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.Embed(callCtx, rawText)
	if err != nil {
		return nil, r.classify(ctx, fmt.Errorf("query embedding: %w", err))
	}

	neighbors, err := r.index.NearestNeighbors(callCtx, vector, topN)
	if err != nil {
		return nil, r.classify(ctx, fmt.Errorf("nearest neighbors: %w", err))
	}

	candidates := make([]types.ScoredCandidate, 0, len(neighbors))
	for _, n := range neighbors {
		score := n.Similarity
		// Catalog embeddings are normalized, so negative similarity only
		// appears with degenerate vectors; clamp to keep raw scores
		// non-negative.
		if score < 0 {
			score = 0
		}
		candidates = append(candidates, types.ScoredCandidate{
			PatternID: n.PatternID,
			RawScore:  score,
			Retriever: types.RetrieverSemantic,
		})
	}

	return candidates, nil
}

// classify maps a failure to the caller-cancellation or
// retriever-unavailable path.
func (r *Retriever) classify(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	return fmt.Errorf("%w: %v", types.ErrRetrieverUnavailable, err)
}
