package core

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestChainPayload_RoundTrip(t *testing.T) {
	rating := 4.8
	chain := PluginChain{
		ID:          "original-id",
		Name:        "Classic Vocal Chain",
		Description: "Warm analog vocal processing",
		Plugins: []PluginSpec{
			{
				Name:         "LA-2A",
				Manufacturer: "Universal Audio",
				Category:     "compressor",
				Position:     1,
				Settings:     "3:1 ratio, slow attack",
				Parameters:   map[string]any{"ratio": 3.0},
			},
			{
				Name:         "Pultec EQP-1A",
				Manufacturer: "Pultec",
				Category:     "eq",
				Position:     2,
			},
		},
		Genre:      "rock",
		Instrument: "vocals",
		Tags:       []string{"vintage", "warm"},
		Rating:     &rating,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		CreatedBy:  "sound_engineer_pro",
	}

	payload, err := ChainPayload(chain)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, ok := payload["id"]; ok {
		t.Fatal("payload must not carry the entity id")
	}

	decoded, err := DecodeChain("chain-1", payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	chain.ID = "chain-1"
	if !reflect.DeepEqual(decoded, chain) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, chain)
	}
}

func TestDecodeChain_MalformedPayloads(t *testing.T) {
	cases := map[string]map[string]any{
		"missing name":     {"plugins": []any{}},
		"missing plugins":  {"name": "Classic Vocal Chain"},
		"empty name":       {"name": "", "plugins": []any{}},
		"mistyped plugins": {"name": "Classic Vocal Chain", "plugins": "not-a-list"},
		"mistyped name":    {"name": 42, "plugins": []any{}},
	}
	for name, payload := range cases {
		if _, err := DecodeChain("chain-1", payload); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: want ErrMalformedRecord, got %v", name, err)
		}
	}
}

func TestChunkPayload_RoundTrip(t *testing.T) {
	chunk := DocumentChunk{
		ID:         "original-id",
		Content:    "Compression controls the dynamic range of audio signals.",
		Embedding:  []float32{0.1, 0.2, 0.3},
		Metadata:   map[string]any{"topic": "compression"},
		Source:     "Audio Engineering Handbook",
		ChunkIndex: 2,
	}

	payload, err := ChunkPayload(chunk)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, ok := payload["id"]; ok {
		t.Fatal("payload must not carry the entity id")
	}
	if _, ok := payload["embedding"]; ok {
		t.Fatal("payload must not carry the embedding, the index owns the vector")
	}

	decoded, err := DecodeChunk("chunk-1", payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	chunk.ID = "chunk-1"
	chunk.Embedding = nil
	if !reflect.DeepEqual(decoded, chunk) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, chunk)
	}
}

func TestDecodeChunk_MalformedPayloads(t *testing.T) {
	cases := map[string]map[string]any{
		"missing content":  {"source": "handbook"},
		"empty content":    {"content": "", "source": "handbook"},
		"mistyped content": {"content": []any{"x"}, "source": "handbook"},
	}
	for name, payload := range cases {
		if _, err := DecodeChunk("chunk-1", payload); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: want ErrMalformedRecord, got %v", name, err)
		}
	}
}
