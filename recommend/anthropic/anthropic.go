// Package anthropic provides a Synthesizer backed by the Anthropic Claude
// Messages API, under the same structured-reply contract as the openai
// adapter.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/chainrag/recommend"
)

// Compile-time check that Synthesizer implements the recommend.Synthesizer interface.
var _ recommend.Synthesizer = (*Synthesizer)(nil)

// Options configures the Anthropic synthesizer adapter (temperature, model
// id, max tokens, API key). Extend via functional options to preserve
// stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Synthesizer wraps the Anthropic Messages API behind the generic
// recommend.Synthesizer interface.
type Synthesizer struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic synthesizer using the official client
func New(optFns ...func(o *Options)) *Synthesizer {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Synthesizer{
		client: &client,
		opts:   opts,
	}
}

// NewFromClient creates a new Anthropic synthesizer from an existing client
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Synthesizer {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Synthesizer{
		client: client,
		opts:   opts,
	}
}

// Synthesize implements the recommend.Synthesizer interface.
func (s *Synthesizer) Synthesize(ctx context.Context, req recommend.SynthesisRequest) (*recommend.Synthesis, error) {
	params := anthropic.MessageNewParams{
		Model:       s.opts.Model,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: anthropic.Float(s.opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: recommend.SynthesisSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(recommend.BuildSynthesisPrompt(req))),
		},
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder

	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	if sb.Len() == 0 {
		return nil, fmt.Errorf("no text content returned")
	}

	return recommend.ParseSynthesis(sb.String())
}

// Info returns a short identifier for logging.
func (s *Synthesizer) Info() string {
	return fmt.Sprintf("anthropic/%s", s.opts.Model)
}
