// Package vecstore provides the vector index consumed by semantic retrieval.
//
// Two implementations are offered behind the VectorIndex interface:
//
//   - MemoryIndex: catalog embeddings held in memory, exhaustive cosine
//     search. The default for catalogs of a few hundred patterns.
//   - SQLiteIndex: embeddings persisted as float32 little-endian blobs in
//     SQLite, surviving process restarts. Similarity is computed in Go after
//     loading candidate vectors.
//
// The SQLite driver is selected at build time: building with the sqlite_vec
// tag uses the CGO driver (github.com/mattn/go-sqlite3), the default build
// uses the pure Go driver (modernc.org/sqlite).
package vecstore
