// Package genai wraps the OpenAI chat completion API used to generate
// algorithm visualizations.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/prompt"
)

// chatService is the minimal slice of the OpenAI client we call. Tests
// substitute a mock.
type chatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Options fixes the sampling parameters for every call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = string(openai.ChatModelGPT4)
	}
	if o.Temperature == 0 {
		o.Temperature = 0.7
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = 2000
	}
	return o
}

// Client performs a single outbound call per Generate. No retries: a failed
// attempt surfaces as an error.
type Client struct {
	chat chatService
	opts Options
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key not set")
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{chat: &cli.Chat.Completions, opts: opts.withDefaults()}, nil
}

// Generate sends the prompt with the fixed system framing and returns the
// raw completion text. Unreachable service, missing choices and empty
// message bodies all map to domain.ErrUpstream; a context deadline maps to
// domain.ErrUpstreamTimeout so callers can tell the two apart.
func (c *Client) Generate(ctx context.Context, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.SystemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(c.opts.Temperature),
		MaxTokens:   openai.Int(int64(c.opts.MaxTokens)),
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("genai.Generate: completion timed out", "model", c.opts.Model)
			return "", fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		slog.Error("genai.Generate: completion failed", "model", c.opts.Model, "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrUpstream)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}

	return content, nil
}
