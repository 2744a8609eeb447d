package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/uigen/patternmatch/internal/catalog"
	"github.com/uigen/patternmatch/internal/embedder"
	"github.com/uigen/patternmatch/internal/explain"
	"github.com/uigen/patternmatch/internal/fusion"
	"github.com/uigen/patternmatch/internal/lexical"
	"github.com/uigen/patternmatch/internal/semantic"
	"github.com/uigen/patternmatch/internal/vecstore"
	"github.com/uigen/patternmatch/pkg/types"
)

// Config holds all retrieval engine settings. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	Weights          fusion.Weights
	OverFetchN       int // Candidates requested from each retriever before fusion
	DefaultTopK      int // Used when the caller passes topK <= 0
	MaxTopK          int // Upper bound on caller-requested topK
	SemanticTimeout  time.Duration
	BM25             lexical.Params
	ExplainThreshold float64
	CacheSize        int // 0 disables the response cache
	CacheTTL         time.Duration
	EmbedConcurrency int // Parallelism of the refresh embedding backfill
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		Weights:          fusion.DefaultWeights(),
		OverFetchN:       20,
		DefaultTopK:      3,
		MaxTopK:          50,
		SemanticTimeout:  semantic.DefaultTimeout,
		BM25:             lexical.DefaultParams(),
		ExplainThreshold: explain.DefaultThreshold,
		CacheSize:        1000,
		CacheTTL:         time.Hour,
		EmbedConcurrency: 4,
	}
}

// Validate fails fast on configuration the engine cannot run with.
// Weights that do not sum to 1.0 and non-positive fetch sizes are
// construction-time errors, never request-time errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.OverFetchN < 1 {
		return fmt.Errorf("%w: over-fetch size must be >= 1, got %d", types.ErrInvalidConfig, c.OverFetchN)
	}
	if c.DefaultTopK < 1 {
		return fmt.Errorf("%w: default top-k must be >= 1, got %d", types.ErrInvalidConfig, c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("%w: max top-k %d below default top-k %d", types.ErrInvalidConfig, c.MaxTopK, c.DefaultTopK)
	}
	return nil
}

// snapshot is one immutable view of the catalog: the patterns by ID and the
// lexical index built over them. Readers load it atomically; refresh builds
// a replacement off to the side and swaps.
type snapshot struct {
	patterns map[string]types.Pattern
	index    *lexical.Index
}

// cacheEntry is a cached response with its expiry.
type cacheEntry struct {
	results   []types.FusedResult
	expiresAt time.Time
}

// Engine is the hybrid retrieval façade.
type Engine struct {
	config    Config
	source    catalog.Source
	embedder  embedder.Embedder
	vectors   vecstore.VectorIndex
	semantic  *semantic.Retriever
	explainer *explain.Explainer

	snap  atomic.Pointer[snapshot]
	cache *lru.Cache[[32]byte, *cacheEntry]
}

// New constructs the engine and loads the initial catalog snapshot.
// Configuration and missing dependencies fail here, not at request time.
func New(ctx context.Context, cfg Config, source catalog.Source, emb embedder.Embedder, vectors vecstore.VectorIndex) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: catalog source is required", types.ErrInvalidConfig)
	}
	if emb == nil {
		return nil, fmt.Errorf("%w: embedder is required", types.ErrInvalidConfig)
	}
	if vectors == nil {
		return nil, fmt.Errorf("%w: vector index is required", types.ErrInvalidConfig)
	}

	e := &Engine{
		config:    cfg,
		source:    source,
		embedder:  emb,
		vectors:   vectors,
		semantic:  semantic.New(emb, vectors, cfg.SemanticTimeout),
		explainer: explain.New(cfg.ExplainThreshold),
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[[32]byte, *cacheEntry](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: cache: %v", types.ErrInvalidConfig, err)
		}
		e.cache = cache
	}

	if err := e.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial catalog load: %w", err)
	}

	return e, nil
}

// Refresh reloads the catalog and swaps in a fresh snapshot. Patterns
// without stored embeddings are embedded here with bounded concurrency; a
// backfill failure logs a warning and leaves the pattern lexical-only
// rather than failing the whole refresh. In-flight requests keep the
// snapshot they started with.
func (e *Engine) Refresh(ctx context.Context) error {
	patterns, err := e.source.LoadPatterns(ctx)
	if err != nil {
		return fmt.Errorf("loading patterns: %w", err)
	}

	e.backfillEmbeddings(ctx, patterns)

	for i := range patterns {
		if !patterns[i].HasEmbedding() {
			continue
		}
		if err := e.vectors.Upsert(ctx, patterns[i].ID, patterns[i].Embedding); err != nil {
			return fmt.Errorf("storing embedding for %s: %w", patterns[i].ID, err)
		}
	}

	byID := make(map[string]types.Pattern, len(patterns))
	for _, p := range patterns {
		byID[p.ID] = p
	}

	e.snap.Store(&snapshot{
		patterns: byID,
		index:    lexical.NewIndex(patterns, e.config.BM25),
	})

	if e.cache != nil {
		e.cache.Purge()
	}

	log.Printf("catalog refreshed: %d patterns indexed", len(patterns))
	return nil
}

// backfillEmbeddings embeds patterns that arrived without one.
func (e *Engine) backfillEmbeddings(ctx context.Context, patterns []types.Pattern) {
	concurrency := e.config.EmbedConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range patterns {
		if patterns[i].HasEmbedding() || patterns[i].TextCorpus == "" {
			continue
		}
		p := &patterns[i]
		g.Go(func() error {
			vec, err := e.embedder.Embed(gctx, p.TextCorpus)
			if err != nil {
				log.Printf("warning: embedding pattern %s failed, lexical-only: %v", p.ID, err)
				return nil
			}
			p.Embedding = vec
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation
	_ = g.Wait()
}

// PatternCount reports the size of the current snapshot.
func (e *Engine) PatternCount() int {
	snap := e.snap.Load()
	if snap == nil {
		return 0
	}
	return snap.index.Size()
}

// Weights returns the configured fusion weights.
func (e *Engine) Weights() fusion.Weights {
	return e.config.Weights
}

// semanticResult carries one branch's outcome through the join point.
type semanticResult struct {
	candidates []types.ScoredCandidate
	err        error
}

// Retrieve runs the full hybrid pipeline for one query and returns at most
// topK fused, explained results. topK <= 0 selects the configured default;
// larger than MaxTopK is clamped. An empty result list is a valid outcome.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int) ([]types.FusedResult, error) {
	if query == "" {
		return nil, types.ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = e.config.DefaultTopK
	}
	if topK > e.config.MaxTopK {
		topK = e.config.MaxTopK
	}

	snap := e.snap.Load()
	if snap == nil || len(snap.patterns) == 0 {
		return []types.FusedResult{}, nil
	}

	key := requestKey(query, topK)
	if cached, ok := e.checkCache(key); ok {
		return cached, nil
	}

	tokens := lexical.Tokenize(query)

	// Fan out: lexical is pure in-memory computation, semantic crosses the
	// network. Both are over-fetched beyond topK so fusion sees every
	// candidate either retriever ranked moderately well.
	lexChan := make(chan []types.ScoredCandidate, 1)
	semChan := make(chan semanticResult, 1)

	go func() {
		lexChan <- snap.index.Search(tokens, e.config.OverFetchN)
	}()
	go func() {
		candidates, err := e.semantic.Search(ctx, query, e.config.OverFetchN)
		semChan <- semanticResult{candidates: candidates, err: err}
	}()

	var lexCandidates []types.ScoredCandidate
	var semRes semanticResult
	var lexDone, semDone bool
	for !lexDone || !semDone {
		select {
		case lexCandidates = <-lexChan:
			lexDone = true
		case semRes = <-semChan:
			semDone = true
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	degraded := false
	weights := e.config.Weights
	if semRes.err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if len(tokens) == 0 {
			// No lexical signal was ever possible for this query, so the
			// failed semantic branch was the only retriever.
			return nil, fmt.Errorf("%w: %v", types.ErrAllRetrieversUnavailable, semRes.err)
		}
		log.Printf("warning: semantic retriever unavailable, degrading to lexical-only: %v", semRes.err)
		degraded = true
		semRes.candidates = nil
		weights = fusion.LexicalOnly()
	}

	// The vector index can still hold embeddings for patterns the last
	// refresh dropped; a candidate outside the current snapshot is never
	// served. Filtering before fusion keeps stale scores out of the
	// normalization extremes too.
	semCandidates := semRes.candidates
	if len(semCandidates) > 0 {
		kept := make([]types.ScoredCandidate, 0, len(semCandidates))
		for _, c := range semCandidates {
			if _, ok := snap.patterns[c.PatternID]; ok {
				kept = append(kept, c)
			}
		}
		semCandidates = kept
	}

	results := fusion.Fuse(weights, lexCandidates, semCandidates, topK)
	if results == nil {
		results = []types.FusedResult{}
	}

	for i := range results {
		p := snap.patterns[results[i].PatternID]
		results[i].Name = p.Name
		results[i].Explanation = e.explainer.Explain(tokens, p.Keywords, results[i])
	}

	// A degraded response reflects a transient outage, not the catalog;
	// caching it would pin lexical-only rankings past recovery.
	if !degraded {
		e.storeCache(key, results)
	}
	return results, nil
}

// requestKey hashes the request parameters for cache lookup.
func requestKey(query string, topK int) [32]byte {
	return sha256.Sum256(fmt.Appendf(nil, "%s|%d", query, topK))
}

func (e *Engine) checkCache(key [32]byte) ([]types.FusedResult, bool) {
	if e.cache == nil {
		return nil, false
	}

	entry, ok := e.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		e.cache.Remove(key)
		return nil, false
	}

	// Copy so caller mutations cannot reach the cached slice
	out := make([]types.FusedResult, len(entry.results))
	copy(out, entry.results)
	return out, true
}

func (e *Engine) storeCache(key [32]byte, results []types.FusedResult) {
	if e.cache == nil {
		return
	}

	stored := make([]types.FusedResult, len(results))
	copy(stored, results)
	e.cache.Add(key, &cacheEntry{
		results:   stored,
		expiresAt: time.Now().Add(e.config.CacheTTL),
	})
}
