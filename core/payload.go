package core

import (
	"encoding/json"
	"fmt"
)

// ChainPayload converts a chain into the schema-less payload stored next to
// its vector in a similarity index. The entity id stays out of the payload;
// index backends track it as the primary key.
func ChainPayload(chain PluginChain) (map[string]any, error) {
	chain.ID = ""
	return toPayload(chain)
}

// DecodeChain rebuilds a chain from an index payload. Decoding fails with
// ErrMalformedRecord when required fields are missing or carry the wrong
// type; nothing is silently defaulted.
func DecodeChain(id string, payload map[string]any) (PluginChain, error) {
	if err := requireFields(payload, "name", "plugins"); err != nil {
		return PluginChain{}, err
	}
	var chain PluginChain
	if err := fromPayload(payload, &chain); err != nil {
		return PluginChain{}, err
	}
	if chain.Name == "" {
		return PluginChain{}, fmt.Errorf("%w: chain name must not be empty", ErrMalformedRecord)
	}
	chain.ID = id
	return chain, nil
}

// ChunkPayload converts a document chunk into its index payload. The vector
// itself lives in the index, so the embedding is stripped alongside the id.
func ChunkPayload(chunk DocumentChunk) (map[string]any, error) {
	chunk.ID = ""
	chunk.Embedding = nil
	return toPayload(chunk)
}

// DecodeChunk rebuilds a document chunk from an index payload, failing with
// ErrMalformedRecord on missing or mistyped required fields.
func DecodeChunk(id string, payload map[string]any) (DocumentChunk, error) {
	if err := requireFields(payload, "content"); err != nil {
		return DocumentChunk{}, err
	}
	var chunk DocumentChunk
	if err := fromPayload(payload, &chunk); err != nil {
		return DocumentChunk{}, err
	}
	if chunk.Content == "" {
		return DocumentChunk{}, fmt.Errorf("%w: chunk content must not be empty", ErrMalformedRecord)
	}
	chunk.ID = id
	return chunk, nil
}

func requireFields(payload map[string]any, fields ...string) error {
	for _, field := range fields {
		if _, ok := payload[field]; !ok {
			return fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
		}
	}
	return nil
}

func toPayload(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return payload, nil
}

func fromPayload(payload map[string]any, v any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return nil
}
