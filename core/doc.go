// Package core provides the foundational domain types shared by every part of
// ChainRAG. It defines the core abstractions for:
//
//   - Catalog entities (PluginSpec, PluginChain, DocumentChunk) and their
//     canonical embedding-text projections
//   - Queries (validated user input with deterministic context rendering)
//   - Retrieval and recommendation outputs (SimilarityHit, RecommendationResult,
//     ResponseEnvelope)
//   - The error taxonomy surfaced across package boundaries
//   - The typed payload codec used by similarity index backends
//
// The package intentionally keeps implementation concerns (embedding
// providers, index backends, synthesis policies) out of scope, exposing plain
// data types and pure functions so that every other package can depend on it
// without pulling in transport or storage code.
package core
