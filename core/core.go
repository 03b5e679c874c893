package core

import (
	"fmt"
	"strings"
	"time"
)

// PluginSpec describes one plugin slot within a chain: which plugin to use,
// where it sits in the signal path and how to dial it in. Specs are immutable
// once their chain has been persisted.
type PluginSpec struct {
	Name         string         `json:"name"`                 // Plugin product name (e.g. "LA-2A")
	Manufacturer string         `json:"manufacturer"`         // Vendor (e.g. "Universal Audio")
	Category     string         `json:"category"`             // Functional category (compressor, eq, ...)
	Position     int            `json:"order"`                // 1-based slot within the chain
	Settings     string         `json:"settings,omitempty"`   // Free-text settings notes
	Parameters   map[string]any `json:"parameters,omitempty"` // Structured parameter values
}

// PluginChain is a curated, ordered sequence of plugins for a production
// task. Chains are append-only catalog entries: the store assigns ID and
// CreatedAt on insert, updates are modeled as new inserts and the core never
// deletes.
type PluginChain struct {
	ID          string       `json:"id,omitempty"`         // Assigned by the store on insert
	Name        string       `json:"name"`                 // Display name (e.g. "Classic Vocal Chain")
	Description string       `json:"description"`          // What the chain is for
	Plugins     []PluginSpec `json:"plugins"`              // Ordered signal path, Position starting at 1
	Genre       string       `json:"genre,omitempty"`      // Optional genre the chain targets
	Instrument  string       `json:"instrument,omitempty"` // Optional source instrument
	Tags        []string     `json:"tags"`                 // Free-text tags, order irrelevant
	Rating      *float64     `json:"rating,omitempty"`     // Optional community rating, 0-5
	CreatedAt   time.Time    `json:"created_at,omitzero"`  // Assigned at persistence time
	CreatedBy   string       `json:"created_by,omitempty"` // Optional creator identifier
}

// EmbeddingText renders the canonical text projection used as embedding input
// for a chain. The field order is fixed (name, description, tags, then genre
// and instrument when set) so that reindexing a chain with identical field
// values always reproduces the identical input string.
func (c PluginChain) EmbeddingText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s", c.Name, c.Description, strings.Join(c.Tags, " "))
	if c.Genre != "" {
		sb.WriteString(" " + c.Genre)
	}
	if c.Instrument != "" {
		sb.WriteString(" " + c.Instrument)
	}
	return sb.String()
}

// DocumentChunk is one retrievable slice of a knowledge-base document. Chunks
// follow the same immutability rule as chains.
type DocumentChunk struct {
	ID         string         `json:"id,omitempty"`       // Assigned by the store on insert
	Content    string         `json:"content"`            // Chunk text, embedded verbatim
	Embedding  []float32      `json:"embedding,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"` // Arbitrary producer-provided metadata
	Source     string         `json:"source"`             // Originating document identifier
	ChunkIndex int            `json:"chunk_index"`        // Position within the source document
}

// EmbeddingText returns the text embedded for knowledge search. Chunks are
// embedded verbatim.
func (c DocumentChunk) EmbeddingText() string {
	return c.Content
}
