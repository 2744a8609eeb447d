package types

// RetrieverKind identifies which retriever produced a candidate score.
type RetrieverKind string

const (
	RetrieverLexical  RetrieverKind = "lexical"
	RetrieverSemantic RetrieverKind = "semantic"
)

// ScoredCandidate is an intermediate, retriever-specific result.
//
// RawScore is non-negative and on a retriever-specific scale: BM25 relevance
// for lexical candidates, cosine similarity for semantic candidates. Raw
// scores from different retrievers are incomparable until normalized by the
// fusion stage.
type ScoredCandidate struct {
	PatternID string
	RawScore  float64
	Retriever RetrieverKind
}

// Validate checks the candidate invariants.
func (c *ScoredCandidate) Validate() error {
	if c.PatternID == "" {
		return ErrMissingPatternID
	}
	if c.RawScore < 0 {
		return ErrNegativeRawScore
	}
	if c.Retriever != RetrieverLexical && c.Retriever != RetrieverSemantic {
		return ErrUnknownRetriever
	}
	return nil
}

// FusedResult is the final output unit of the retrieval engine.
//
// LexicalScore and SemanticScore are min-max normalized to [0, 1] within
// their own result sets; a score of 0 means the pattern was absent from that
// retriever's results. FusedScore is the weighted sum of the two and is
// therefore also bounded to [0, 1].
type FusedResult struct {
	PatternID     string  `json:"pattern_id"`
	Name          string  `json:"name,omitempty"`
	LexicalScore  float64 `json:"lexical_score"`
	SemanticScore float64 `json:"semantic_score"`
	FusedScore    float64 `json:"fused_score"`
	Explanation   string  `json:"explanation"`
	Rank          int     `json:"rank"` // Position in result set (1-based)
}

// Validate checks if the fused result is valid.
func (r *FusedResult) Validate() error {
	if r.PatternID == "" {
		return ErrMissingPatternID
	}
	if r.Rank < 1 {
		return ErrInvalidRank
	}
	if r.LexicalScore < 0 || r.LexicalScore > 1 {
		return ErrInvalidScore
	}
	if r.SemanticScore < 0 || r.SemanticScore > 1 {
		return ErrInvalidScore
	}
	if r.FusedScore < 0 || r.FusedScore > 1 {
		return ErrInvalidScore
	}
	return nil
}
