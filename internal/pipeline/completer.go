package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/hartanah/propcompare/pkg/anthropic"
	"github.com/hartanah/propcompare/pkg/perplexity"
)

// Completer abstracts a completion backend: one prompt in, one text out.
// Both selectable providers implement it; the search-capable provider is
// passed separately where the pipeline needs web results.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicCompleter adapts an Anthropic client to the Completer interface.
type AnthropicCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicCompleter creates a Completer backed by Anthropic.
func NewAnthropicCompleter(client anthropic.Client, model string, maxTokens int64) *AnthropicCompleter {
	return &AnthropicCompleter{client: client, model: model, maxTokens: maxTokens}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "pipeline: anthropic complete")
	}
	return resp.FirstText(), nil
}

// PerplexityCompleter adapts a Perplexity client to the Completer
// interface. Sonar models search the web server-side, which makes this
// the pipeline's search backend as well.
type PerplexityCompleter struct {
	client    perplexity.Client
	model     string
	maxTokens int
}

// NewPerplexityCompleter creates a Completer backed by Perplexity.
func NewPerplexityCompleter(client perplexity.Client, model string, maxTokens int) *PerplexityCompleter {
	return &PerplexityCompleter{client: client, model: model, maxTokens: maxTokens}
}

func (c *PerplexityCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model:     c.model,
		Messages:  []perplexity.Message{{Role: "user", Content: prompt}},
		MaxTokens: &c.maxTokens,
	})
	if err != nil {
		return "", eris.Wrap(err, "pipeline: perplexity complete")
	}
	return resp.FirstText(), nil
}
