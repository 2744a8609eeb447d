// Package fusion reconciles the two retrievers' incomparable score
// distributions into a single ranking.
//
// Each result set is min-max normalized against itself, the candidate sets
// are unioned (absence from one retriever scores 0 on that side, which is a
// real signal rather than an error), and the normalized scores are combined
// with configured weights. Score-level fusion is used instead of rank-based
// fusion so that magnitude survives: one near-perfect semantic match can
// outrank several weak lexical matches.
package fusion

import (
	"fmt"
	"math"
	"sort"

	"github.com/uigen/patternmatch/pkg/types"
)

// weightTolerance absorbs float rounding when checking that weights sum to 1.
const weightTolerance = 1e-9

// Weights holds the fusion weights for the two retrievers. They must each
// lie in [0, 1] and sum to 1.
type Weights struct {
	Lexical  float64
	Semantic float64
}

// DefaultWeights returns the calibrated default: semantic-majority fusion.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.3, Semantic: 0.7}
}

// LexicalOnly returns the degraded weighting used when semantic retrieval
// is unavailable for a request.
func LexicalOnly() Weights {
	return Weights{Lexical: 1.0, Semantic: 0.0}
}

// Validate rejects weights outside [0, 1] or not summing to 1.0.
func (w Weights) Validate() error {
	if w.Lexical < 0 || w.Lexical > 1 || w.Semantic < 0 || w.Semantic > 1 {
		return fmt.Errorf("%w: weights must be in [0, 1], got lexical=%v semantic=%v",
			types.ErrInvalidConfig, w.Lexical, w.Semantic)
	}
	if math.Abs(w.Lexical+w.Semantic-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %v",
			types.ErrInvalidConfig, w.Lexical+w.Semantic)
	}
	return nil
}

// Fuse combines the two candidate sets into a ranked, truncated result list.
//
// Ordering is total: fused score descending, then normalized semantic score
// descending, then pattern ID ascending. Ranks are assigned 1-based after
// truncation to topK. Weights are assumed validated at engine construction.
func Fuse(w Weights, lexical, semantic []types.ScoredCandidate, topK int) []types.FusedResult {
	if topK <= 0 {
		return nil
	}

	lexScores := normalize(lexical)
	semScores := normalize(semantic)

	ids := make(map[string]struct{}, len(lexScores)+len(semScores))
	for id := range lexScores {
		ids[id] = struct{}{}
	}
	for id := range semScores {
		ids[id] = struct{}{}
	}
	if len(ids) == 0 {
		return nil
	}

	results := make([]types.FusedResult, 0, len(ids))
	for id := range ids {
		lex := lexScores[id]
		sem := semScores[id]
		results = append(results, types.FusedResult{
			PatternID:     id,
			LexicalScore:  lex,
			SemanticScore: sem,
			FusedScore:    w.Lexical*lex + w.Semantic*sem,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FusedScore != results[j].FusedScore {
			return results[i].FusedScore > results[j].FusedScore
		}
		if results[i].SemanticScore != results[j].SemanticScore {
			return results[i].SemanticScore > results[j].SemanticScore
		}
		return results[i].PatternID < results[j].PatternID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// normalize min-max rescales one retriever's raw scores into [0, 1] using
// that set's own extremes. A set whose scores are all equal (including a
// singleton) normalizes to 1.0, avoiding division by zero.
func normalize(set []types.ScoredCandidate) map[string]float64 {
	scores := make(map[string]float64, len(set))
	if len(set) == 0 {
		return scores
	}

	minScore := set[0].RawScore
	maxScore := set[0].RawScore
	for _, c := range set[1:] {
		if c.RawScore < minScore {
			minScore = c.RawScore
		}
		if c.RawScore > maxScore {
			maxScore = c.RawScore
		}
	}

	if maxScore == minScore {
		for _, c := range set {
			scores[c.PatternID] = 1.0
		}
		return scores
	}

	spread := maxScore - minScore
	for _, c := range set {
		scores[c.PatternID] = (c.RawScore - minScore) / spread
	}
	return scores
}
