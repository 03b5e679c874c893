// Package embedding defines the provider-agnostic abstractions and concrete
// helpers for converting text into fixed-dimensional vectors inside ChainRAG.
//
// Core goals:
//   - Unify single and batch embedding behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Enforce the empty-input policy uniformly across implementations
//   - Facilitate deterministic testing without network access (HashProvider)
//
// Providers (e.g. OpenAI) implement the Provider interface from this package
// so higher layers (retrieval, recommendation) remain decoupled from vendor
// SDKs.
package embedding
