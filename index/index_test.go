package index

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/chainrag/core"
)

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors must score 1, got %v", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal vectors must score 0, got %v", got)
	}
	// Opposed vectors clamp to 0 instead of going negative.
	if got := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); got != 0 {
		t.Fatalf("opposed vectors must clamp to 0, got %v", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{1, 0}); got != 0 {
		t.Fatalf("degenerate input must yield 0, not NaN, got %v", got)
	}
	if got := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Fatalf("width mismatch must yield 0, got %v", got)
	}
}

func TestValidateVector(t *testing.T) {
	if err := ValidateVector([]float32{0.5, 0.5}); err != nil {
		t.Fatalf("well-formed vector rejected: %v", err)
	}
	for name, vec := range map[string][]float32{
		"empty":    {},
		"zero":     {0, 0, 0},
		"nan":      {float32(math.NaN()), 1},
		"infinite": {float32(math.Inf(1)), 1},
	} {
		if err := ValidateVector(vec); !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("%s vector: want ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(1); err != nil {
		t.Fatalf("limit 1 rejected: %v", err)
	}
	if err := ValidateLimit(0); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("limit 0: want ErrInvalidInput, got %v", err)
	}
	if err := ValidateLimit(-3); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("negative limit: want ErrInvalidInput, got %v", err)
	}
}

func TestFilters_Matches(t *testing.T) {
	payload := map[string]any{"genre": "Indie Rock", "instrument": "vocals", "rating": 4.5}

	if !(Filters)(nil).Matches(payload) {
		t.Fatal("nil filters must match everything")
	}
	if !(Filters{"genre": ""}).Matches(payload) {
		t.Fatal("empty filter value must restrict nothing")
	}
	if !(Filters{"genre": "rock"}).Matches(payload) {
		t.Fatal("substring match must be case-insensitive")
	}
	if !(Filters{"genre": "rock", "instrument": "vocal"}).Matches(payload) {
		t.Fatal("all filters matching must pass")
	}
	if (Filters{"genre": "jazz"}).Matches(payload) {
		t.Fatal("non-matching value must exclude")
	}
	if (Filters{"mood": "dark"}).Matches(payload) {
		t.Fatal("missing payload field must exclude")
	}
	if (Filters{"rating": "4"}).Matches(payload) {
		t.Fatal("non-string payload field must exclude")
	}
}
