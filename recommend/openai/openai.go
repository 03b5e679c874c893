// Package openai provides a Synthesizer backed by the OpenAI Chat
// Completions API. It renders the shared synthesis prompt, requests a
// structured JSON reply, and decodes it into a recommend.Synthesis.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/chainrag/recommend"
)

// Compile-time check that Synthesizer implements the recommend.Synthesizer interface.
var _ recommend.Synthesizer = (*Synthesizer)(nil)

// Options configure the OpenAI synthesizer adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Synthesizer wraps the OpenAI Chat Completions API behind the generic
// recommend.Synthesizer interface.
type Synthesizer struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI synthesizer using the official client
func New(optFns ...func(o *Options)) *Synthesizer {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI synthesizer from an existing client
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Synthesizer {
	opts := Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         0.7,
		MaxCompletionTokens: 1024,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Synthesizer{client: client, opts: opts}
}

// Synthesize implements the recommend.Synthesizer interface.
func (s *Synthesizer) Synthesize(ctx context.Context, req recommend.SynthesisRequest) (*recommend.Synthesis, error) {
	params := openai.ChatCompletionNewParams{
		Model: s.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(recommend.SynthesisSystemPrompt),
			openai.UserMessage(recommend.BuildSynthesisPrompt(req)),
		},
		Temperature:         openai.Float(s.opts.Temperature),
		MaxCompletionTokens: openai.Int(s.opts.MaxCompletionTokens),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return recommend.ParseSynthesis(resp.Choices[0].Message.Content)
}

// Info returns a short identifier for logging.
func (s *Synthesizer) Info() string {
	return fmt.Sprintf("openai/%s", s.opts.Model)
}
