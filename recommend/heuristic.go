package recommend

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/hupe1980/chainrag/core"
)

// Compile-time check that Heuristic implements the Synthesizer interface.
var _ Synthesizer = (*Heuristic)(nil)

// Heuristic is a deterministic Synthesizer. It derives confidence from the
// top hit's similarity score and builds the explanation from genre,
// instrument, tag, and owned-plugin overlap between the query and the best
// candidate. Identical evidence always produces identical output, which
// makes it the default for tests and for deployments without a model
// backend.
type Heuristic struct{}

// NewHeuristic creates a deterministic synthesizer.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Synthesize implements the Synthesizer interface.
func (h *Heuristic) Synthesize(_ context.Context, req SynthesisRequest) (*Synthesis, error) {
	if len(req.Chains) == 0 {
		return &Synthesis{
			Explanation: "No matching plugin chains were found for this request. Broaden the query text or drop the genre and instrument filters to widen the candidate set.",
			Confidence:  0,
		}, nil
	}

	top := req.Chains[0]
	chain := top.Entity

	var sb strings.Builder
	fmt.Fprintf(&sb, "The closest match is %q with a similarity of %.2f.", chain.Name, top.Score)

	if req.Query.Genre != "" && containsFold(chain.Genre, req.Query.Genre) {
		fmt.Fprintf(&sb, " Its %s focus lines up with the requested genre.", chain.Genre)
	}

	if req.Query.Instrument != "" && containsFold(chain.Instrument, req.Query.Instrument) {
		fmt.Fprintf(&sb, " It is built for %s.", chain.Instrument)
	}

	if shared := sharedTags(req.Query.Text, chain.Tags); len(shared) > 0 {
		fmt.Fprintf(&sb, " Shared descriptors: %s.", strings.Join(shared, ", "))
	}

	if owned := ownedPlugins(req.Query.OwnedPlugins, chain); len(owned) > 0 {
		fmt.Fprintf(&sb, " It uses plugins you already own: %s.", strings.Join(owned, ", "))
	}

	if len(req.Knowledge) > 0 {
		fmt.Fprintf(&sb, " Supporting guidance drawn from %s.", req.Knowledge[0].Entity.Source)
	}

	if rest := len(req.Chains) - 1; rest > 0 {
		fmt.Fprintf(&sb, " %d further candidate(s) follow in ranked order.", rest)
	}

	syn := &Synthesis{
		Explanation: sb.String(),
		Confidence:  clamp01(top.Score),
	}

	if len(req.Knowledge) > 0 {
		syn.Tips = req.Knowledge[0].Entity.Content
	}

	return syn, nil
}

// sharedTags returns the chain tags that also occur as tokens of the query
// text, preserving tag order.
func sharedTags(queryText string, tags []string) []string {
	tokens := map[string]struct{}{}
	for _, tok := range strings.FieldsFunc(strings.ToLower(queryText), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = struct{}{}
	}

	var shared []string

	for _, tag := range tags {
		if _, ok := tokens[strings.ToLower(tag)]; ok {
			shared = append(shared, tag)
		}
	}

	return shared
}

// ownedPlugins returns the owned-plugin names that appear in the chain,
// preserving the order they were supplied in.
func ownedPlugins(owned []string, chain core.PluginChain) []string {
	var matches []string

	for _, name := range owned {
		for _, p := range chain.Plugins {
			if strings.EqualFold(p.Name, name) {
				matches = append(matches, name)
				break
			}
		}
	}

	return matches
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
