// Package lexical implements keyword retrieval over the pattern catalog.
//
// It provides the shared tokenizer (applied symmetrically to catalog text and
// queries) and an in-memory inverted index scored with BM25. The index is
// immutable once built; catalog refreshes build a new index and swap it in at
// the engine layer.
package lexical
