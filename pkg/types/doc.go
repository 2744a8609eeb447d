// Package types provides shared type definitions for the patternmatch
// retrieval engine.
//
// This package defines the domain types that flow between the retrieval
// components: catalog patterns, queries, retriever-specific candidates, and
// fused results.
//
// # Core Types
//
// Pattern represents one reusable code-pattern template from the catalog:
//
//	pattern := &types.Pattern{
//	    ID:         "button-primary",
//	    Name:       "Button",
//	    TextCorpus: "Button primary variant loading disabled onClick",
//	    Keywords:   []string{"button", "primary", "variant", "loading"},
//	}
//
// ScoredCandidate is the intermediate result produced by a single retriever.
// Its RawScore is on a retriever-specific scale (BM25 for lexical, cosine
// similarity for semantic) and must never be compared across retrievers
// before normalization.
//
// FusedResult is the final output unit. Its LexicalScore, SemanticScore, and
// FusedScore are all normalized to the [0, 1] range, with higher values
// indicating better matches. Results are ordered by FusedScore descending,
// ties broken by SemanticScore descending, then PatternID ascending, which
// makes the ordering total.
//
// # Errors
//
// The package defines the sentinel errors shared across the retrieval
// pipeline. ErrRetrieverUnavailable marks a recoverable single-retriever
// failure; ErrAllRetrieversUnavailable is surfaced to the caller when no
// retriever produced a result set; ErrInvalidConfig is returned at engine
// construction, never at request time. All are compatible with errors.Is
// through wrapped errors.
package types
