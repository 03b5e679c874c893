package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/chainrag/core"
	"github.com/hupe1980/chainrag/internal/testutil"
)

func heuristicRequest() SynthesisRequest {
	return SynthesisRequest{
		Query: core.Query{
			Text:         "warm vintage vocal chain for indie rock",
			Genre:        "indie rock",
			Instrument:   "vocals",
			OwnedPlugins: []string{"LA-2A"},
		},
		QueryContext: "Query: warm vintage vocal chain for indie rock | Genre: indie rock | Instrument: vocals | Owned plugins: LA-2A",
		Chains: []core.SimilarityHit[core.PluginChain]{
			{
				Entity: testutil.NewChainBuilder("Vintage Vocal Chain").
					Genre("Indie Rock").
					Instrument("Vocals").
					Tags("vintage", "warm", "analog").
					Plugin("LA-2A", "Universal Audio", "compressor").
					Build(),
				Score: 0.87,
			},
			{
				Entity: testutil.NewChainBuilder("Modern Bass Chain").Tags("clean", "modern").Build(),
				Score:  0.41,
			},
		},
		Knowledge: []core.SimilarityHit[core.DocumentChunk]{
			{
				Entity: testutil.NewChunk("Compression controls the dynamic range of audio signals.", "Audio Engineering Handbook", 0),
				Score:  0.72,
			},
		},
	}
}

func TestHeuristic_Synthesize(t *testing.T) {
	syn, err := NewHeuristic().Synthesize(context.Background(), heuristicRequest())
	require.NoError(t, err)

	assert.Equal(t, 0.87, syn.Confidence, "confidence must equal the top hit's similarity")
	assert.Contains(t, syn.Explanation, `"Vintage Vocal Chain"`)
	assert.Contains(t, syn.Explanation, "0.87")
	assert.Contains(t, syn.Explanation, "Indie Rock")
	assert.Contains(t, syn.Explanation, "Vocals")
	assert.Contains(t, syn.Explanation, "vintage, warm")
	assert.Contains(t, syn.Explanation, "LA-2A")
	assert.Contains(t, syn.Explanation, "Audio Engineering Handbook")
	assert.Contains(t, syn.Explanation, "1 further candidate")
	assert.Equal(t, "Compression controls the dynamic range of audio signals.", syn.Tips)
}

func TestHeuristic_Deterministic(t *testing.T) {
	h := NewHeuristic()

	first, err := h.Synthesize(context.Background(), heuristicRequest())
	require.NoError(t, err)
	second, err := h.Synthesize(context.Background(), heuristicRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHeuristic_EmptyEvidence(t *testing.T) {
	syn, err := NewHeuristic().Synthesize(context.Background(), SynthesisRequest{
		Query: core.Query{Text: "warm vocals"},
	})
	require.NoError(t, err)

	assert.Zero(t, syn.Confidence)
	assert.Contains(t, syn.Explanation, "No matching plugin chains")
	assert.Empty(t, syn.Tips)
}

func TestHeuristic_SkipsAbsentOverlap(t *testing.T) {
	req := SynthesisRequest{
		Query: core.Query{Text: "something entirely different"},
		Chains: []core.SimilarityHit[core.PluginChain]{
			{Entity: testutil.NewChainBuilder("Analog Drum Bus").Tags("punchy").Build(), Score: 0.3},
		},
	}

	syn, err := NewHeuristic().Synthesize(context.Background(), req)
	require.NoError(t, err)

	assert.NotContains(t, syn.Explanation, "Shared descriptors")
	assert.NotContains(t, syn.Explanation, "already own")
	assert.NotContains(t, syn.Explanation, "Supporting guidance")
	assert.NotContains(t, syn.Explanation, "further candidate")
	assert.Equal(t, 0.3, syn.Confidence)
}

func TestHeuristic_ClampsConfidence(t *testing.T) {
	req := SynthesisRequest{
		Query: core.Query{Text: "over unity"},
		Chains: []core.SimilarityHit[core.PluginChain]{
			{Entity: testutil.NewChainBuilder("Analog Drum Bus").Build(), Score: 1.2},
		},
	}

	syn, err := NewHeuristic().Synthesize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1.0, syn.Confidence)
}
