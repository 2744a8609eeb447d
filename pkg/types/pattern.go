package types

// Pattern is a catalog entry representing one reusable code template.
//
// TextCorpus is the concatenated searchable text (name, description, prop
// names, tags) used for lexical indexing. Keywords are the normalized tokens
// derived from TextCorpus; they are produced by the same tokenizer that is
// applied to queries, which keeps lexical matching symmetric.
//
// The catalog is immutable for the lifetime of an index snapshot. Ingestion
// rebuilds snapshots wholesale; nothing mutates a Pattern in place.
type Pattern struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TextCorpus string    `json:"text_corpus"`
	Keywords   []string  `json:"keywords,omitempty"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// Validate checks structural validity of a pattern. An empty TextCorpus is
// valid: the pattern indexes with zero tokens and never matches lexically.
func (p *Pattern) Validate() error {
	if p.ID == "" {
		return ErrMissingPatternID
	}
	return nil
}

// HasEmbedding reports whether the pattern carries a stored embedding.
func (p *Pattern) HasEmbedding() bool {
	return len(p.Embedding) > 0
}

// Query is the caller-supplied free text describing desired component
// requirements, together with its normalized token form.
type Query struct {
	RawText string
	Tokens  []string
}
