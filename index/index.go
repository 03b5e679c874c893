package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hupe1980/chainrag/core"
)

// Filters restricts a query to records whose payload matches every entry.
// Matching is case-insensitive substring containment on string payload
// fields. A nil map, or an entry with an empty value, restricts nothing;
// records whose payload lacks the field (or holds a non-string) never match.
type Filters map[string]string

// Matches reports whether the payload satisfies all filters.
func (f Filters) Matches(payload map[string]any) bool {
	for field, want := range f {
		if want == "" {
			continue
		}
		value, ok := payload[field].(string)
		if !ok {
			return false
		}
		if !strings.Contains(strings.ToLower(value), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

// Hit is one index query result: the record id, its similarity score in
// [0,1] and the stored payload.
type Hit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// Index is the similarity store contract. Implementations must be safe for
// concurrent use; a completed Upsert is visible to every Query issued after
// it returns.
type Index interface {
	// EnsureSchema creates the backing collection when absent. It is
	// idempotent and safe to call repeatedly and concurrently.
	EnsureSchema(ctx context.Context) error

	// Upsert stores or replaces the vector and payload for an id.
	Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error

	// Query returns at most limit hits ordered by descending similarity
	// (ascending cosine distance), restricted to records matching filters.
	Query(ctx context.Context, vector []float32, limit int, filters Filters) ([]Hit, error)
}

// SortHits orders hits in place by descending score, breaking ties by
// ascending id so result ordering stays deterministic across runs.
func SortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}

// ValidateLimit rejects non-positive result limits with core.ErrInvalidInput.
func ValidateLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1, got %d", core.ErrInvalidInput, limit)
	}
	return nil
}

// ValidateVector rejects empty, NaN-carrying and zero-magnitude vectors with
// core.ErrInvalidInput. Degenerate vectors would produce undefined cosine
// scores, so they must never enter the index or a query.
func ValidateVector(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: vector must not be empty", core.ErrInvalidInput)
	}
	var norm float64
	for _, v := range vector {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: vector contains non-finite components", core.ErrInvalidInput)
		}
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return fmt.Errorf("%w: vector has zero magnitude", core.ErrInvalidInput)
	}
	return nil
}

// CosineSimilarity returns 1 - cosine distance for two equal-width vectors,
// clamped to [0,1]. Callers are expected to validate inputs first; degenerate
// input yields 0 rather than NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(score) {
		return 0
	}
	return math.Min(1, math.Max(0, score))
}
