package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/chainrag/core"
)

// SynthesisSystemPrompt is the shared system prompt for model-backed
// synthesizers. It frames the model as an audio engineer and pins the
// structured reply contract parsed by ParseSynthesis.
const SynthesisSystemPrompt = `You are an expert audio engineer and plugin specialist with deep knowledge of music production.
Your role is to explain why the retrieved plugin chains fit a specific audio engineering request.

When writing the explanation:
1. Consider the musical genre and target instrument
2. Explain the signal flow and why each plugin works in the chain
3. Reference specific settings when they are available
4. Consider the user's owned plugins if provided
5. Describe the sonic characteristics each plugin contributes

Be practical, educational, and focus on achieving professional results.

Reply with a single JSON object and nothing else:
{"explanation": "<why these chains fit the request>", "additional_tips": "<optional engineering tips or empty string>", "confidence": <number between 0 and 1>}`

// BuildSynthesisPrompt renders the user message for model-backed
// synthesizers: the query context followed by the retrieved evidence.
func BuildSynthesisPrompt(req SynthesisRequest) string {
	var sb strings.Builder

	sb.WriteString(req.QueryContext)
	sb.WriteString("\n\nRetrieved plugin chains:\n")

	if len(req.Chains) == 0 {
		sb.WriteString("(none)\n")
	} else {
		sb.WriteString(RenderCandidates(req.Chains))
	}

	if len(req.Knowledge) > 0 {
		sb.WriteString("\nSupporting knowledge:\n")
		sb.WriteString(RenderKnowledge(req.Knowledge))
	}

	return sb.String()
}

// RenderCandidates produces a compact plain-text listing of retrieved chains
// for prompt construction.
func RenderCandidates(chains []core.SimilarityHit[core.PluginChain]) string {
	var sb strings.Builder

	for i, hit := range chains {
		chain := hit.Entity

		fmt.Fprintf(&sb, "%d. %s (similarity %.3f)\n", i+1, chain.Name, hit.Score)

		if chain.Description != "" {
			fmt.Fprintf(&sb, "   Description: %s\n", chain.Description)
		}

		if len(chain.Plugins) > 0 {
			names := make([]string, len(chain.Plugins))
			for j, p := range chain.Plugins {
				names[j] = fmt.Sprintf("%s (%s, %s)", p.Name, p.Manufacturer, p.Category)
			}

			fmt.Fprintf(&sb, "   Signal flow: %s\n", strings.Join(names, " -> "))
		}

		if chain.Genre != "" {
			fmt.Fprintf(&sb, "   Genre: %s\n", chain.Genre)
		}

		if chain.Instrument != "" {
			fmt.Fprintf(&sb, "   Instrument: %s\n", chain.Instrument)
		}

		if len(chain.Tags) > 0 {
			fmt.Fprintf(&sb, "   Tags: %s\n", strings.Join(chain.Tags, ", "))
		}
	}

	return sb.String()
}

// RenderKnowledge produces a plain-text listing of supporting knowledge
// chunks for prompt construction.
func RenderKnowledge(chunks []core.SimilarityHit[core.DocumentChunk]) string {
	var sb strings.Builder

	for i, hit := range chunks {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, hit.Entity.Source, hit.Entity.Content)
	}

	return sb.String()
}

// synthesisReply mirrors the JSON contract pinned by SynthesisSystemPrompt.
type synthesisReply struct {
	Explanation    string  `json:"explanation"`
	AdditionalTips string  `json:"additional_tips"`
	Confidence     float64 `json:"confidence"`
}

// ParseSynthesis decodes a model reply into a Synthesis. Code fences and
// surrounding prose are tolerated as long as one JSON object is present; a
// reply without a usable explanation is an error.
func ParseSynthesis(raw string) (*Synthesis, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return nil, fmt.Errorf("no JSON object in synthesis reply")
	}

	var reply synthesisReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("decode synthesis reply: %w", err)
	}

	if strings.TrimSpace(reply.Explanation) == "" {
		return nil, fmt.Errorf("synthesis reply has no explanation")
	}

	return &Synthesis{
		Explanation: reply.Explanation,
		Tips:        reply.AdditionalTips,
		Confidence:  reply.Confidence,
	}, nil
}

// extractJSONObject returns the outermost {...} span of s, or "" when none
// exists.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start < 0 || end <= start {
		return ""
	}

	return s[start : end+1]
}
