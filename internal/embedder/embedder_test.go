package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderDeterminism(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := emb.Embed(ctx, "button with primary variant")
	require.NoError(t, err)

	second, err := emb.Embed(ctx, "button with primary variant")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, LocalDimension)
}

func TestLocalProviderUnitLength(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	vec, err := emb.Embed(context.Background(), "card container elevation")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestLocalProviderSharedVocabularyOverlap(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	a, err := emb.Embed(ctx, "button primary loading")
	require.NoError(t, err)
	b, err := emb.Embed(ctx, "button primary disabled")
	require.NoError(t, err)
	c, err := emb.Embed(ctx, "carousel autoplay interval")
	require.NoError(t, err)

	related := dot(a, b)
	unrelated := dot(a, c)
	assert.Greater(t, related, unrelated)
}

func TestLocalProviderEmptyText(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = emb.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestLocalProviderBatch(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	vecs, err := emb.EmbedBatch(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.NotEqual(t, vecs[0], vecs[1])

	_, err = emb.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = emb.EmbedBatch(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCache(t *testing.T) {
	cache := NewCache(10)

	hash := ComputeHash("some text")
	vec := []float32{1, 2, 3}
	cache.Set(hash, vec)

	got, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, vec, got)

	// Mutating the returned slice must not pollute the cache
	got[0] = 99
	again, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, float32(1), again[0])

	_, ok = cache.Get(ComputeHash("missing"))
	assert.False(t, ok)

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestNormalize(t *testing.T) {
	vec := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)

	zero := []float32{0, 0}
	assert.Equal(t, zero, Normalize(zero))
}

func TestNewFromEnvDefaultsToLocal(t *testing.T) {
	t.Setenv("PATTERNMATCH_EMBEDDING_PROVIDER", "")
	t.Setenv(EnvOpenAIAPIKey, "")

	emb, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
}

func TestNewFromEnvUnknownProvider(t *testing.T) {
	t.Setenv("PATTERNMATCH_EMBEDDING_PROVIDER", "cohere")

	_, err := NewFromEnv()
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNewOpenAIProviderRequiresKey(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "")

	_, err := NewOpenAIProvider("", "", nil)
	assert.ErrorIs(t, err, ErrNoProviderEnabled)
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	if math.IsNaN(sum) {
		return 0
	}
	return sum
}
