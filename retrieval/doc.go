// Package retrieval composes an embedding provider with similarity indexes
// into ChainRAG's two named read operations (chain search, knowledge search)
// and their ingestion counterparts (add chain, add document).
//
// The service owns the canonical text projections: entities are embedded from
// core's EmbeddingText renderings and queries from raw query text, so
// reindexing is reproducible and search results decode back into typed
// entities. Both read paths are side-effect free and propagate provider and
// index failures unchanged; recovery policy belongs to the caller.
package retrieval
