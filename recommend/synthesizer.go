package recommend

import (
	"context"

	"github.com/hupe1980/chainrag/core"
)

// SynthesisRequest carries everything a Synthesizer may draw on: the
// structured query, its rendered context string, and the retrieved evidence
// in retrieval order. Synthesizers must treat the request as read-only.
type SynthesisRequest struct {
	// Query is the validated user request.
	Query core.Query

	// QueryContext is the deterministic rendering of the query (text plus
	// applied filters plus owned-plugin context). Purely descriptive.
	QueryContext string

	// Chains holds the retrieved candidate chains, best match first.
	Chains []core.SimilarityHit[core.PluginChain]

	// Knowledge holds supporting knowledge base chunks, best match first.
	// May be empty when knowledge retrieval is disabled.
	Knowledge []core.SimilarityHit[core.DocumentChunk]
}

// Synthesis is the structured output of one synthesis step. Explanation and
// Confidence are query-scoped: the Recommender stamps them onto every
// recommendation in the response.
type Synthesis struct {
	// Explanation describes why the retrieved chains fit the request.
	Explanation string

	// Tips carries optional additional engineering advice. May be empty.
	Tips string

	// Confidence expresses trust in the recommendation set, in [0,1].
	Confidence float64
}

// Synthesizer turns retrieved evidence into an explanation and a confidence
// value. Implementations range from deterministic heuristics to language
// model calls; failures surface as core.ErrSynthesisFailed through the
// Recommender.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*Synthesis, error)
}
