// Package catalog loads the pattern catalog from its backing source.
//
// The catalog is owned by an external ingestion pipeline; this package only
// reads it. Loaded patterns are normalized before use: missing IDs are
// assigned, search keywords are derived from the text corpus with the shared
// tokenizer, and duplicate IDs are rejected as a deployment defect.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/uigen/patternmatch/internal/lexical"
	"github.com/uigen/patternmatch/pkg/types"
)

// Source is a bulk-load interface for the pattern catalog, invoked at
// startup and on refresh signals.
type Source interface {
	LoadPatterns(ctx context.Context) ([]types.Pattern, error)
}

// Normalize prepares raw catalog entries for indexing: assigns IDs where
// missing, derives keywords from the text corpus, and rejects duplicate IDs.
// A pattern with an empty TextCorpus is kept; it simply never matches
// lexically.
func Normalize(patterns []types.Pattern) ([]types.Pattern, error) {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]types.Pattern, 0, len(patterns))

	for i, p := range patterns {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate pattern ID %q at index %d", p.ID, i)
		}
		seen[p.ID] = struct{}{}

		if len(p.Keywords) == 0 {
			p.Keywords = lexical.TokenSet(p.TextCorpus)
		}

		out = append(out, p)
	}

	return out, nil
}

// composeCorpus builds a searchable text corpus from the descriptive fields
// of a catalog record when no explicit corpus is provided.
func composeCorpus(name, description string, props, tags []string) string {
	parts := make([]string, 0, 2+len(props)+len(tags))
	if name != "" {
		parts = append(parts, name)
	}
	if description != "" {
		parts = append(parts, description)
	}
	parts = append(parts, props...)
	parts = append(parts, tags...)
	return strings.Join(parts, " ")
}
