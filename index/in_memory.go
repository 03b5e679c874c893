package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/chainrag/core"
)

type record struct {
	vector  []float32
	payload map[string]any
}

// InMemory is a volatile Index implementation storing records in a process
// local map. It is safe for concurrent access and best suited for tests,
// examples and single-process deployments. Vectors and payloads are copied on
// both write and read to prevent external mutation of internal state.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]record
}

var _ Index = (*InMemory)(nil)

// NewInMemory constructs an empty in-memory index.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]record)}
}

// EnsureSchema implements Index; the map needs no provisioning.
func (s *InMemory) EnsureSchema(ctx context.Context) error {
	return nil
}

// Upsert implements Index.
func (s *InMemory) Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error {
	if id == "" {
		return fmt.Errorf("%w: record id must not be empty", core.ErrInvalidInput)
	}
	if err := ValidateVector(vector); err != nil {
		return err
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = record{vector: stored, payload: clonePayload(payload)}
	return nil
}

// Query implements Index. Filters narrow the candidate set before the top-K
// ranking is applied; ties are broken by ascending id so result order is
// deterministic.
func (s *InMemory) Query(ctx context.Context, vector []float32, limit int, filters Filters) ([]Hit, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}
	if err := ValidateVector(vector); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]Hit, 0, len(s.records))
	for id, rec := range s.records {
		if !filters.Matches(rec.payload) {
			continue
		}
		if len(rec.vector) != len(vector) {
			return nil, fmt.Errorf("%w: query vector width %d does not match stored width %d", core.ErrInvalidInput, len(vector), len(rec.vector))
		}
		hits = append(hits, Hit{ID: id, Score: CosineSimilarity(vector, rec.vector)})
	}

	SortHits(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	for i := range hits {
		hits[i].Payload = clonePayload(s.records[hits[i].ID].payload)
	}
	return hits, nil
}

// clonePayload deep-copies the JSON-shaped parts of a payload (maps, slices);
// scalar values are immutable and shared as-is.
func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	cloned := make(map[string]any, len(payload))
	for k, v := range payload {
		cloned[k] = cloneValue(v)
	}
	return cloned
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return clonePayload(value)
	case []any:
		cloned := make([]any, len(value))
		for i, item := range value {
			cloned[i] = cloneValue(item)
		}
		return cloned
	case []string:
		cloned := make([]string, len(value))
		copy(cloned, value)
		return cloned
	default:
		return v
	}
}
