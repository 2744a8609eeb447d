// Package embedder provides text embedding generation for semantic pattern
// retrieval.
//
// It supports multiple embedding providers through the Embedder interface:
//
//   - OpenAI: production embeddings via the OpenAI embeddings API
//   - Local: deterministic hash-based vectors for offline use and testing
//
// Providers share an LRU cache keyed by content hash, so repeated queries and
// catalog refreshes do not re-embed unchanged text. Remote calls are retried
// with exponential backoff and respect context cancellation.
//
// Provider selection is environment-driven:
//
//	emb, err := embedder.NewFromEnv()
//
// PATTERNMATCH_EMBEDDING_PROVIDER selects explicitly ("openai" or "local");
// otherwise OPENAI_API_KEY enables OpenAI and the local provider is the
// fallback.
package embedder
