// Package assistant wraps the OpenAI chat completion API behind the single
// question-answer call the web UI needs.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/apex/log"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are a helpful assistant."

// answers are capped for cost control
const maxAnswerTokens = 500

// Kind classifies failures for user-facing messaging.
type Kind int

const (
	KindUnexpected Kind = iota
	KindRateLimit
	KindAuth
	KindConnection
)

// Error carries both the wire error and a message safe to show users.
type Error struct {
	Kind Kind
	err  error
}

// NewError classifies err as kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, err: err}
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

// UserMessage returns the text shown on the answer page.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindRateLimit:
		return "API rate limit exceeded. Please try again later."
	case KindAuth:
		return "API authentication failed. Please check your API key."
	case KindConnection:
		return "Unable to connect to OpenAI API. Please check your internet connection."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// Client asks the configured model questions.
type Client struct {
	api   *openai.Client
	model string
}

// New builds a client. model falls back to DefaultModel; baseURL overrides
// the OpenAI endpoint when non-empty, for proxies and tests.
func New(apiKey, model, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required, set it in your environment or .env file")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}, nil
}

// Model reports which model the client queries.
func (c *Client) Model() string { return c.model }

// Ask sends the question to the chat completion API and returns the
// answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	log.WithField("question", truncate(question, 50)).Info("querying model")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		MaxTokens:   maxAnswerTokens,
		Temperature: 0.7,
	})
	if err != nil {
		cls := classify(err)
		log.WithError(err).Error("chat completion failed")
		return "", cls
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Kind: KindUnexpected, err: fmt.Errorf("model returned no choices")}
	}

	log.Debug("received answer")
	return resp.Choices[0].Message.Content, nil
}

// classify maps wire errors onto the user-facing taxonomy.
func classify(err error) *Error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, err: err}
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuth, err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Kind: KindConnection, err: err}
	}

	return &Error{Kind: KindUnexpected, err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
