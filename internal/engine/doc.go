// Package engine orchestrates hybrid pattern retrieval.
//
// The engine owns the read side of the system: an immutable snapshot of the
// pattern catalog plus its lexical index, swapped atomically on refresh, and
// the per-request fan-out to the lexical and semantic retrievers. Results
// from both branches are joined, fused with weighted min-max normalization,
// annotated with explanations, and optionally cached.
//
// Failure policy: a semantic failure degrades the request to lexical-only
// scoring without touching global configuration; configuration problems fail
// at construction, never at request time; an empty result list is a valid
// outcome, not an error.
package engine
