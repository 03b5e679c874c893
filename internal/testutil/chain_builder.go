package testutil

import (
	"github.com/hupe1980/chainrag/core"
)

// ChainBuilder helps construct plugin chains with fluent chaining for tests.
// Example:
//
//	chain := NewChainBuilder("Vintage Vocal Chain").Genre("rock").Tags("vintage", "warm").Build()
type ChainBuilder struct {
	chain core.PluginChain
}

// NewChainBuilder creates a new builder for a chain with the given name and a
// placeholder description. Use chainable methods then call Build.
func NewChainBuilder(name string) *ChainBuilder {
	return &ChainBuilder{chain: core.PluginChain{
		Name:        name,
		Description: name + " processing",
		Plugins:     []core.PluginSpec{},
		Tags:        []string{},
	}}
}

// ID sets the chain id (chainable).
func (b *ChainBuilder) ID(id string) *ChainBuilder {
	b.chain.ID = id
	return b
}

// Description overwrites the placeholder description (chainable).
func (b *ChainBuilder) Description(d string) *ChainBuilder {
	b.chain.Description = d
	return b
}

// Genre sets the genre (chainable).
func (b *ChainBuilder) Genre(g string) *ChainBuilder {
	b.chain.Genre = g
	return b
}

// Instrument sets the instrument (chainable).
func (b *ChainBuilder) Instrument(i string) *ChainBuilder {
	b.chain.Instrument = i
	return b
}

// Tags appends free-text tags (chainable).
func (b *ChainBuilder) Tags(tags ...string) *ChainBuilder {
	b.chain.Tags = append(b.chain.Tags, tags...)
	return b
}

// Plugin appends a plugin spec at the next position (chainable).
func (b *ChainBuilder) Plugin(name, manufacturer, category string) *ChainBuilder {
	b.chain.Plugins = append(b.chain.Plugins, core.PluginSpec{
		Name:         name,
		Manufacturer: manufacturer,
		Category:     category,
		Position:     len(b.chain.Plugins) + 1,
	})
	return b
}

// Rating sets the community rating (chainable).
func (b *ChainBuilder) Rating(r float64) *ChainBuilder {
	b.chain.Rating = &r
	return b
}

// Build returns the assembled core.PluginChain.
func (b *ChainBuilder) Build() core.PluginChain {
	return b.chain
}

// NewChunk constructs a document chunk for tests.
func NewChunk(content, source string, idx int) core.DocumentChunk {
	return core.DocumentChunk{Content: content, Source: source, ChunkIndex: idx}
}
