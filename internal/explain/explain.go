// Package explain derives a short human-readable rationale for each fused
// result from signals the retrieval pipeline has already computed. No extra
// retrieval or model calls are made; the function is pure.
package explain

import (
	"fmt"
	"strings"

	"github.com/uigen/patternmatch/pkg/types"
)

// DefaultThreshold is the semantic score above which a result is described
// as semantically similar. A calibration parameter, exposed as
// configuration.
const DefaultThreshold = 0.7

// Explainer renders match explanations.
type Explainer struct {
	threshold float64
}

// New creates an explainer. A non-positive threshold selects
// DefaultThreshold.
func New(threshold float64) *Explainer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Explainer{threshold: threshold}
}

// Explain produces the rationale for one fused result.
//
// A lexical fragment lists the intersection of query tokens and the
// pattern's keywords, in the pattern's keyword order for determinism. A
// semantic fragment appears when the normalized semantic score exceeds the
// threshold. Fragments join with " | "; with neither signal the result is a
// weak match.
func (e *Explainer) Explain(queryTokens, keywords []string, result types.FusedResult) string {
	var fragments []string

	if result.LexicalScore > 0 {
		if overlap := intersect(queryTokens, keywords); len(overlap) > 0 {
			fragments = append(fragments,
				"Exact match on keywords: "+strings.Join(overlap, ", "))
		}
	}

	if result.SemanticScore > e.threshold {
		fragments = append(fragments,
			fmt.Sprintf("Semantically similar (score: %.2f)", result.SemanticScore))
	}

	if len(fragments) == 0 {
		return "Weak match"
	}
	return strings.Join(fragments, " | ")
}

// intersect returns the keywords present in the query token set, preserving
// keyword order.
func intersect(queryTokens, keywords []string) []string {
	if len(queryTokens) == 0 || len(keywords) == 0 {
		return nil
	}

	inQuery := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		inQuery[tok] = struct{}{}
	}

	var overlap []string
	for _, kw := range keywords {
		if _, ok := inQuery[kw]; ok {
			overlap = append(overlap, kw)
		}
	}
	return overlap
}
