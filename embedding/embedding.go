package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/chainrag/core"
)

// DefaultDimensions is the vector width used when no explicit dimensionality
// is configured. It matches the default output width of the OpenAI
// text-embedding-3-small model.
const DefaultDimensions = 1536

// Info contains metadata about a provider implementation.
type Info struct {
	Model      string `json:"model"`
	Provider   string `json:"provider"` // "openai", "hash", etc.
	Dimensions int    `json:"dimensions"`
}

// Provider is the minimal interface required to turn text into vectors for
// similarity search. Implementations must reject empty input with
// core.ErrInvalidInput before any network call and surface unreachable
// backends as core.ErrProviderUnavailable. Vectors returned by one provider
// instance always share the dimensionality reported by Info.
type Provider interface {
	// Embed converts a single text into a vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts in order, one vector per input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Info returns information about the provider implementation.
	Info() Info
}

// ValidateTexts rejects empty batches and blank entries with
// core.ErrInvalidInput. Provider implementations share it so the empty-input
// policy stays uniform: a zero-content embedding is meaningless for ranking
// and must never reach the upstream capability.
func ValidateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no texts to embed", core.ErrInvalidInput)
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("%w: text at position %d must not be empty", core.ErrInvalidInput, i)
		}
	}
	return nil
}
