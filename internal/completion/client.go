// Package completion asks an OpenAI-compatible chat-completion endpoint for a
// SQL statement and extracts it from the reply.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leapstack-labs/asksql/internal/prompt"
)

// Defaults for the Groq endpoint.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 150

	// PlaceholderAPIKey stands in for an unset GROQ_API_KEY. Requests are
	// refused while it is in use.
	PlaceholderAPIKey = "Enter Your API Key Here"
)

// GeneratedQuery is the SQL extracted from one completion.
type GeneratedQuery struct {
	SQL   string
	Model string
	Raw   string // completion text as returned by the provider
}

// Completer produces a SQL statement for a prompt.
type Completer interface {
	Complete(ctx context.Context, p prompt.Prompt) (GeneratedQuery, error)
}

// Config configures a Client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // zero means no client-side timeout
	HTTPClient  *http.Client  // optional; overrides Timeout
	Logger      *slog.Logger
}

// Client is a Completer backed by a chat-completion HTTP API.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	logger      *slog.Logger
}

var _ Completer = (*Client)(nil)

// NewClient creates a Client, filling unset fields with the Groq defaults.
// A missing API key is not an error here; it is reported by Complete.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		client:      httpClient,
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat-completion request and extracts the SQL statement
// from the first choice. The request is never retried.
func (c *Client) Complete(ctx context.Context, p prompt.Prompt) (GeneratedQuery, error) {
	if c.apiKey == "" || c.apiKey == PlaceholderAPIKey {
		return GeneratedQuery{}, &APIError{Message: "API key is not set (export GROQ_API_KEY)"}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return GeneratedQuery{}, fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return GeneratedQuery{}, &APIError{Message: "build chat request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("requesting chat completion", slog.String("model", c.model), slog.String("url", httpReq.URL.String()))
	start := time.Now()

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return GeneratedQuery{}, &APIError{Message: "request chat completion: " + err.Error(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return GeneratedQuery{}, &APIError{StatusCode: resp.StatusCode, Message: "read chat response body", Cause: err}
	}
	c.logger.Debug("chat completion returned",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return GeneratedQuery{}, &APIError{StatusCode: resp.StatusCode, Message: providerMessage(rawBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return GeneratedQuery{}, &APIError{StatusCode: resp.StatusCode, Message: "decode chat completion response", Cause: err}
	}
	if len(parsed.Choices) == 0 {
		return GeneratedQuery{}, &APIError{StatusCode: resp.StatusCode, Message: "empty chat completion choices"}
	}

	raw := parsed.Choices[0].Message.Content
	sql, err := ExtractSQL(raw)
	if err != nil {
		c.logger.Debug("no SQL in completion", slog.String("completion", raw))
		return GeneratedQuery{}, err
	}
	return GeneratedQuery{SQL: sql, Model: c.model, Raw: raw}, nil
}

// providerMessage returns error.message from an OpenAI-style error body, or
// the trimmed body itself.
func providerMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response body"
	}
	const maxLen = 512
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}
	return msg
}
