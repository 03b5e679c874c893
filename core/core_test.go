package core

import (
	"testing"
)

func TestPluginChain_EmbeddingText(t *testing.T) {
	chain := PluginChain{
		Name:        "Classic Vocal Chain",
		Description: "Warm analog vocal processing",
		Tags:        []string{"vintage", "warm"},
	}
	if got, want := chain.EmbeddingText(), "Classic Vocal Chain Warm analog vocal processing vintage warm"; got != want {
		t.Fatalf("EmbeddingText mismatch: got %q want %q", got, want)
	}

	chain.Genre = "rock"
	chain.Instrument = "vocals"
	if got, want := chain.EmbeddingText(), "Classic Vocal Chain Warm analog vocal processing vintage warm rock vocals"; got != want {
		t.Fatalf("optional fields not appended in fixed order: got %q want %q", got, want)
	}
}

func TestPluginChain_EmbeddingTextDeterminism(t *testing.T) {
	// Identical field values must produce the identical projection no matter
	// how the literal is written, otherwise reindexing drifts.
	a := PluginChain{
		Name:        "Analog Drum Bus",
		Description: "Punchy drum bus processing",
		Genre:       "rock",
		Instrument:  "drums",
		Tags:        []string{"punchy", "analog"},
	}
	b := PluginChain{
		Tags:        []string{"punchy", "analog"},
		Instrument:  "drums",
		Genre:       "rock",
		Description: "Punchy drum bus processing",
		Name:        "Analog Drum Bus",
	}
	if a.EmbeddingText() != b.EmbeddingText() {
		t.Fatalf("projection not deterministic: %q vs %q", a.EmbeddingText(), b.EmbeddingText())
	}
}

func TestDocumentChunk_EmbeddingText(t *testing.T) {
	chunk := DocumentChunk{
		Content:    "Compression controls the dynamic range of audio signals.",
		Source:     "Audio Engineering Handbook",
		ChunkIndex: 0,
	}
	if got := chunk.EmbeddingText(); got != chunk.Content {
		t.Fatalf("chunks must embed verbatim content, got %q", got)
	}
}
