// Package index defines the similarity index contract used by ChainRAG's
// retrieval layer and provides an in-memory implementation.
//
// An Index stores (id, vector, payload) records and answers top-K queries
// ordered by descending cosine similarity. Optional categorical filters
// narrow the candidate set before the top-K ranking is applied, never after,
// so a filtered query ranks over exactly the matching records. Concrete
// backends live in subpackages (sqlite, pgvector); all of them share the
// scoring and filter semantics defined here.
package index
