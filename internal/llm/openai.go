package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultGenerateMaxTokens bounds completions requested by the comparison
// engine, matching the judge-side budget of one response.
const DefaultGenerateMaxTokens = 1000

// Client is an OpenAI-backed implementation of Judge and Generator.
// A custom base URL supports OpenAI-compatible gateways.
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

var (
	_ Judge     = (*Client)(nil)
	_ Generator = (*Client)(nil)
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout applied to every provider request.
// Zero disables the client-side deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient builds an OpenAI-backed client. baseURL may be empty for the
// default endpoint.
func NewClient(apiKey, baseURL string, opts ...ClientOption) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c := &Client{api: openai.NewClientWithConfig(cfg)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Judge runs a structured judgment call with JSON response format and
// returns the raw payload. Empty or non-JSON content is reported as
// ErrMalformedOutput; everything else as ErrTransport.
func (c *Client) Judge(ctx context.Context, req JudgeRequest) (json.RawMessage, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxCompletionTokens: req.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, TransportErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, MalformedErr(errors.New("response contained no choices"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, MalformedErr(errors.New("empty response content"))
	}
	if !json.Valid([]byte(content)) {
		return nil, MalformedErr(fmt.Errorf("response is not valid JSON: %.80s", content))
	}
	return json.RawMessage(content), nil
}

// Generate runs a plain completion against the named model and returns the
// text with the provider's usage report.
func (c *Client) Generate(ctx context.Context, prompt, model string) (*Generation, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: DefaultGenerateMaxTokens,
	})
	if err != nil {
		return nil, TransportErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, MalformedErr(errors.New("response contained no choices"))
	}

	return &Generation{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
