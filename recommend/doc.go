// Package recommend orchestrates retrieval and synthesis into explained,
// confidence-scored plugin chain recommendations.
//
// The Recommender is the central coordination point of a query: it validates
// the incoming request, renders the human-readable query context, retrieves
// candidate chains and supporting knowledge concurrently through the
// retrieval service, hands the evidence to a Synthesizer, and assembles the
// final response envelope with timing metadata.
//
// Synthesis is an injected capability behind the narrow Synthesizer
// interface. The Heuristic implementation derives explanation and confidence
// deterministically from the retrieved evidence; the openai and anthropic
// subpackages delegate the same contract to a language model. The
// Recommender's control flow is identical in both cases, which keeps the
// orchestration deterministic and testable with a stub.
package recommend
