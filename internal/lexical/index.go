package lexical

import (
	"math"
	"sort"

	"github.com/uigen/patternmatch/pkg/types"
)

// Params holds the BM25 saturation and length-normalization constants.
// The defaults are calibration parameters, not behavioral guarantees; the
// engine exposes them as configuration.
type Params struct {
	K1 float64 // Term-frequency saturation (typical range 1.2-1.5)
	B  float64 // Document-length normalization (typical 0.75)
}

// DefaultParams returns the standard BM25 constants.
func DefaultParams() Params {
	return Params{K1: 1.2, B: 0.75}
}

// Index is an immutable in-memory inverted index over pattern text.
//
// It maps token -> pattern ID -> term frequency, alongside per-token
// document frequencies and per-pattern token counts. Safe for unlimited
// concurrent readers; a catalog refresh builds a replacement index rather
// than mutating this one.
type Index struct {
	params   Params
	postings map[string]map[string]int
	docFreq  map[string]int
	docLen   map[string]int
	totalLen int
	size     int
}

// NewIndex builds an inverted index over the given patterns. A pattern with
// an empty TextCorpus is indexed with zero tokens: it counts toward corpus
// size but can never match, which is valid rather than an error.
func NewIndex(patterns []types.Pattern, params Params) *Index {
	if params.K1 <= 0 {
		params = DefaultParams()
	}

	idx := &Index{
		params:   params,
		postings: make(map[string]map[string]int),
		docFreq:  make(map[string]int),
		docLen:   make(map[string]int, len(patterns)),
		size:     len(patterns),
	}

	for _, p := range patterns {
		tokens := Tokenize(p.TextCorpus)
		idx.docLen[p.ID] = len(tokens)
		idx.totalLen += len(tokens)

		for _, tok := range tokens {
			if idx.postings[tok] == nil {
				idx.postings[tok] = make(map[string]int)
			}
			if idx.postings[tok][p.ID] == 0 {
				idx.docFreq[tok]++
			}
			idx.postings[tok][p.ID]++
		}
	}

	return idx
}

// Size returns the number of indexed patterns.
func (idx *Index) Size() int {
	return idx.size
}

// Search scores patterns against the query tokens with BM25 and returns up
// to topN candidates ordered by score descending, ties broken by pattern ID
// ascending. Patterns sharing no token with the query are excluded. An empty
// token list yields an empty result, not an error.
func (idx *Index) Search(tokens []string, topN int) []types.ScoredCandidate {
	if len(tokens) == 0 || topN <= 0 || idx.size == 0 {
		return nil
	}

	avgLen := float64(idx.totalLen) / float64(idx.size)

	scores := make(map[string]float64)
	for _, tok := range uniqueTokens(tokens) {
		posting := idx.postings[tok]
		if len(posting) == 0 {
			continue
		}

		idf := idx.idf(len(posting))
		for id, tf := range posting {
			scores[id] += idf * idx.saturate(float64(tf), float64(idx.docLen[id]), avgLen)
		}
	}

	if len(scores) == 0 {
		return nil
	}

	candidates := make([]types.ScoredCandidate, 0, len(scores))
	for id, score := range scores {
		candidates = append(candidates, types.ScoredCandidate{
			PatternID: id,
			RawScore:  score,
			Retriever: types.RetrieverLexical,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RawScore != candidates[j].RawScore {
			return candidates[i].RawScore > candidates[j].RawScore
		}
		return candidates[i].PatternID < candidates[j].PatternID
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// idf computes the inverse document frequency for a token present in df
// patterns. The +1 inside the log keeps the value strictly positive for
// tokens appearing in most of the corpus.
func (idx *Index) idf(df int) float64 {
	n := float64(idx.size)
	return math.Log(1.0 + (n-float64(df)+0.5)/(float64(df)+0.5))
}

// saturate applies BM25 term-frequency saturation with document-length
// normalization.
func (idx *Index) saturate(tf, docLen, avgLen float64) float64 {
	norm := 1.0
	if avgLen > 0 {
		norm = 1.0 - idx.params.B + idx.params.B*(docLen/avgLen)
	}
	return tf * (idx.params.K1 + 1.0) / (tf + idx.params.K1*norm)
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		unique = append(unique, tok)
	}
	return unique
}
