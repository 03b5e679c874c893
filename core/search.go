package core

// SimilarityHit pairs a retrieved entity with its cosine similarity score.
// Scores live in [0,1] and are comparable only within a single result set;
// hits are ordered by descending score with ties broken deterministically by
// entity identity.
type SimilarityHit[T any] struct {
	Entity T       `json:"entity"`
	Score  float64 `json:"score"`
}

// RecommendationResult is one recommended chain together with the evidence
// that produced it. Explanation and Confidence are query-scoped synthesis
// outputs: every result within one response shares them.
type RecommendationResult struct {
	Chain       PluginChain `json:"chain"`
	Similarity  float64     `json:"similarity_score"`
	Explanation string      `json:"explanation"`
	Confidence  float64     `json:"confidence"`
}

// ResponseEnvelope is the terminal output of one recommendation request.
// Recommendations keep their retrieval order; they are never re-sorted after
// synthesis.
type ResponseEnvelope struct {
	Recommendations []RecommendationResult `json:"recommendations"`
	QueryContext    string                 `json:"query_context"`   // Rendering of Query.Context
	TotalResults    int                    `json:"total_results"`   // len(Recommendations)
	SearchTimeMS    float64                `json:"search_time_ms"`  // Wall-clock elapsed, milliseconds
}
