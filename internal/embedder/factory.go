package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Config holds embedder configuration.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. PATTERNMATCH_EMBEDDING_PROVIDER (openai, local)
//  2. OPENAI_API_KEY present -> openai
//  3. Fallback to local
func NewFromEnv() (Embedder, error) {
	provider := os.Getenv("PATTERNMATCH_EMBEDDING_PROVIDER")
	openaiKey := os.Getenv(EnvOpenAIAPIKey)
	model := os.Getenv("PATTERNMATCH_EMBEDDING_MODEL")

	cache := NewCache(10000)

	if provider != "" {
		switch strings.ToLower(provider) {
		case ProviderOpenAI:
			return NewOpenAIProvider(openaiKey, model, cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
		}
	}

	if openaiKey != "" {
		return NewOpenAIProvider(openaiKey, model, cache)
	}

	return NewLocalProvider(cache)
}

// New creates an embedder with explicit configuration.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
