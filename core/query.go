package core

import (
	"fmt"
	"strings"
)

// DefaultMaxResults is the number of recommendations returned when a query
// does not request an explicit limit.
const DefaultMaxResults = 5

// Query is a structured recommendation request. Genre and Instrument narrow
// the candidate set as hard filters; OwnedPlugins is descriptive context only
// and never filters results.
type Query struct {
	Text         string   `json:"text"`                    // Free-text description of what the user needs
	Genre        string   `json:"genre,omitempty"`         // Optional genre filter
	Instrument   string   `json:"instrument,omitempty"`    // Optional instrument filter
	OwnedPlugins []string `json:"owned_plugins,omitempty"` // Plugins the user already owns, context only
	MaxResults   int      `json:"max_results,omitempty"`   // Result cap; 0 means DefaultMaxResults
}

// Validate rejects queries that must never reach a provider or index call.
// Validation failures carry ErrInvalidInput.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: query text must not be empty", ErrInvalidInput)
	}
	if q.MaxResults < 0 {
		return fmt.Errorf("%w: max results must be at least 1, got %d", ErrInvalidInput, q.MaxResults)
	}
	return nil
}

// Limit returns the effective result limit, falling back to DefaultMaxResults
// when the query does not set one.
func (q Query) Limit() int {
	if q.MaxResults > 0 {
		return q.MaxResults
	}
	return DefaultMaxResults
}

// Context renders the human-readable query context echoed in the response
// envelope. Clauses are appended in a fixed order (text, genre, instrument,
// owned plugins) so identical queries always produce identical context
// strings. The result is descriptive and is never re-parsed.
func (q Query) Context() string {
	var sb strings.Builder
	sb.WriteString("Query: " + q.Text)
	if q.Genre != "" {
		sb.WriteString(" | Genre: " + q.Genre)
	}
	if q.Instrument != "" {
		sb.WriteString(" | Instrument: " + q.Instrument)
	}
	if len(q.OwnedPlugins) > 0 {
		sb.WriteString(" | Owned plugins: " + strings.Join(q.OwnedPlugins, ", "))
	}
	return sb.String()
}
