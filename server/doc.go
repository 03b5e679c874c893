// Package server exposes the recommendation pipeline over HTTP.
//
// The surface is a small JSON API under /api/v1: query submission, chain
// ingestion, direct (synthesis-free) search, a health probe, and schema
// initialization. Domain errors map onto HTTP status codes by taxonomy:
// invalid input is a 400, backend unavailability a 503, synthesis failure a
// 502.
package server
