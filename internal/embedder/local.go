package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// LocalProvider generates deterministic embeddings without network access.
//
// Vectors are derived from token-level content hashes, so texts sharing
// tokens land near each other while unrelated texts stay apart. Good enough
// for offline development and test fixtures; not a substitute for a trained
// model in production.
type LocalProvider struct {
	cache *Cache
}

// NewLocalProvider creates a local embedder.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{cache: cache}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := ComputeHash(text)
	if l.cache != nil {
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vec := hashEmbedding(text)

	if l.cache != nil {
		l.cache.Set(hash, vec)
	}
	return vec, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vecs[i] = vec
	}
	return vecs, nil
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Close() error {
	return nil
}

// hashEmbedding builds a bag-of-tokens vector: each whitespace-separated
// token hashes to a handful of dimensions, so shared vocabulary produces
// cosine overlap.
func hashEmbedding(text string) []float32 {
	vec := make([]float32, LocalDimension)

	start := -1
	addToken := func(tok string) {
		if tok == "" {
			return
		}
		h := sha256.Sum256([]byte(tok))
		for i := 0; i+4 <= 16; i += 4 {
			dim := binary.LittleEndian.Uint32(h[i:i+4]) % LocalDimension
			vec[dim] += 1.0
		}
	}

	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			if start >= 0 {
				addToken(text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		addToken(text[start:])
	}

	return Normalize(vec)
}
