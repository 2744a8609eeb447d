package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uigen/patternmatch/pkg/types"
)

func lex(id string, score float64) types.ScoredCandidate {
	return types.ScoredCandidate{PatternID: id, RawScore: score, Retriever: types.RetrieverLexical}
}

func sem(id string, score float64) types.ScoredCandidate {
	return types.ScoredCandidate{PatternID: id, RawScore: score, Retriever: types.RetrieverSemantic}
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.NoError(t, LexicalOnly().Validate())
	assert.NoError(t, Weights{Lexical: 0.5, Semantic: 0.5}.Validate())

	assert.ErrorIs(t, Weights{Lexical: 0.5, Semantic: 0.6}.Validate(), types.ErrInvalidConfig)
	assert.ErrorIs(t, Weights{Lexical: -0.1, Semantic: 1.1}.Validate(), types.ErrInvalidConfig)
	assert.ErrorIs(t, Weights{Lexical: 1.2, Semantic: -0.2}.Validate(), types.ErrInvalidConfig)
}

func TestFuseWeightedSum(t *testing.T) {
	w := Weights{Lexical: 0.3, Semantic: 0.7}

	// Two candidates per side so min-max spreads to 0 and 1
	results := Fuse(w,
		[]types.ScoredCandidate{lex("a", 10), lex("b", 2)},
		[]types.ScoredCandidate{sem("a", 0.9), sem("b", 0.1)},
		10)
	require.Len(t, results, 2)

	a := results[0]
	assert.Equal(t, "a", a.PatternID)
	assert.Equal(t, 1.0, a.LexicalScore)
	assert.Equal(t, 1.0, a.SemanticScore)
	assert.InDelta(t, 1.0, a.FusedScore, 1e-9)

	b := results[1]
	assert.Equal(t, 0.0, b.LexicalScore)
	assert.Equal(t, 0.0, b.SemanticScore)
	assert.Equal(t, 0.0, b.FusedScore)
}

func TestFuseMissingSideScoresZero(t *testing.T) {
	w := DefaultWeights()

	results := Fuse(w,
		[]types.ScoredCandidate{lex("lex-only", 5), lex("both", 3)},
		[]types.ScoredCandidate{sem("sem-only", 0.8), sem("both", 0.6)},
		10)
	require.Len(t, results, 3)

	byID := make(map[string]types.FusedResult)
	for _, r := range results {
		byID[r.PatternID] = r
	}

	assert.Equal(t, 0.0, byID["lex-only"].SemanticScore)
	assert.Equal(t, 0.0, byID["sem-only"].LexicalScore)
	assert.Greater(t, byID["both"].FusedScore, 0.0)
}

func TestFuseSingletonNormalizesToOne(t *testing.T) {
	results := Fuse(DefaultWeights(),
		[]types.ScoredCandidate{lex("only", 0.0001)},
		nil,
		10)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].LexicalScore)
}

func TestFuseAllEqualScoresNormalizeToOne(t *testing.T) {
	results := Fuse(DefaultWeights(),
		[]types.ScoredCandidate{lex("a", 4), lex("b", 4), lex("c", 4)},
		nil,
		10)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 1.0, r.LexicalScore)
	}
}

func TestFuseBoundedness(t *testing.T) {
	results := Fuse(DefaultWeights(),
		[]types.ScoredCandidate{lex("a", 100), lex("b", 50), lex("c", 1)},
		[]types.ScoredCandidate{sem("b", 0.99), sem("c", 0.2), sem("d", 0.5)},
		10)

	for _, r := range results {
		assert.NoError(t, r.Validate())
		assert.GreaterOrEqual(t, r.LexicalScore, 0.0)
		assert.LessOrEqual(t, r.LexicalScore, 1.0)
		assert.GreaterOrEqual(t, r.SemanticScore, 0.0)
		assert.LessOrEqual(t, r.SemanticScore, 1.0)
		assert.GreaterOrEqual(t, r.FusedScore, 0.0)
		assert.LessOrEqual(t, r.FusedScore, 1.0)
	}
}

func TestFuseTieBreakChain(t *testing.T) {
	// Both candidates fuse to the same score with equal semantic scores;
	// pattern ID decides
	results := Fuse(Weights{Lexical: 0.5, Semantic: 0.5},
		[]types.ScoredCandidate{lex("z-pattern", 7), lex("a-pattern", 7)},
		[]types.ScoredCandidate{sem("z-pattern", 0.4), sem("a-pattern", 0.4)},
		10)
	require.Len(t, results, 2)
	assert.Equal(t, "a-pattern", results[0].PatternID)
	assert.Equal(t, "z-pattern", results[1].PatternID)

	// Equal fused scores with differing semantic scores: semantic decides.
	// lex normalizes to {hi:1, lo:0}, sem to {lo:1, hi:0}; with equal
	// weights both fuse to 0.5 and "lo" wins on the semantic tie-break.
	results = Fuse(Weights{Lexical: 0.5, Semantic: 0.5},
		[]types.ScoredCandidate{lex("hi", 9), lex("lo", 1)},
		[]types.ScoredCandidate{sem("lo", 0.9), sem("hi", 0.1)},
		10)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].FusedScore, results[1].FusedScore)
	assert.Equal(t, "lo", results[0].PatternID)
}

func TestFuseRanksAndTruncation(t *testing.T) {
	results := Fuse(DefaultWeights(),
		[]types.ScoredCandidate{lex("a", 9), lex("b", 5), lex("c", 1)},
		nil,
		2)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
}

func TestFuseEmptyInputs(t *testing.T) {
	assert.Empty(t, Fuse(DefaultWeights(), nil, nil, 5))
	assert.Empty(t, Fuse(DefaultWeights(), []types.ScoredCandidate{lex("a", 1)}, nil, 0))
}

func TestFuseDeterminism(t *testing.T) {
	lexSet := []types.ScoredCandidate{lex("a", 3), lex("b", 3), lex("c", 7)}
	semSet := []types.ScoredCandidate{sem("b", 0.5), sem("d", 0.5), sem("a", 0.9)}

	first := Fuse(DefaultWeights(), lexSet, semSet, 10)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Fuse(DefaultWeights(), lexSet, semSet, 10))
	}
}

func TestFuseMonotonicityOfTopSemanticCandidate(t *testing.T) {
	lexSet := []types.ScoredCandidate{lex("lexstar", 10), lex("semstar", 1)}
	semSet := []types.ScoredCandidate{sem("semstar", 0.95), sem("lexstar", 0.05)}

	rankOf := func(results []types.FusedResult, id string) int {
		for _, r := range results {
			if r.PatternID == id {
				return r.Rank
			}
		}
		return len(results) + 1
	}

	prevRank := rankOf(Fuse(Weights{Lexical: 0.9, Semantic: 0.1}, lexSet, semSet, 10), "semstar")
	for _, ws := range []float64{0.3, 0.5, 0.7, 0.9} {
		w := Weights{Lexical: 1 - ws, Semantic: ws}
		require.NoError(t, w.Validate())
		rank := rankOf(Fuse(w, lexSet, semSet, 10), "semstar")
		assert.LessOrEqual(t, rank, prevRank,
			"raising the semantic weight must never demote the top semantic candidate")
		prevRank = rank
	}
}
