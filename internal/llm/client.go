// Package llm is the client for the external completion service. It is
// the only layer that produces typed errors crossing into engine logic:
// every failure is classified into an ErrorKind and surfaced as *Error,
// never a raw transport error.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1/chat/completions"
	DefaultModel   = "gpt-4o-mini"

	requestTimeout = 60 * time.Second
)

// Client produces a freeform text completion for a system/user prompt
// pair.
type Client interface {
	GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// ErrorKind classifies a completion failure.
type ErrorKind string

const (
	KindNoAPIKey         ErrorKind = "no_api_key"
	KindInvalidURL       ErrorKind = "invalid_url"
	KindInvalidResponse  ErrorKind = "invalid_response"
	KindConnectionFailed ErrorKind = "connection_failed"
	KindServerError      ErrorKind = "server_error"
	KindDecodingFailed   ErrorKind = "decoding_failed"
	KindUnknown          ErrorKind = "unknown"
)

// Error is a typed completion failure with a human-readable description.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNoAPIKey:
		return "no API key configured"
	case KindInvalidURL:
		return fmt.Sprintf("invalid service URL: %s", e.Detail)
	case KindInvalidResponse:
		if e.Detail != "" {
			return fmt.Sprintf("invalid response from service: %s", e.Detail)
		}
		return "invalid response from service"
	case KindConnectionFailed:
		return fmt.Sprintf("connection failed: %s", e.Detail)
	case KindServerError:
		return fmt.Sprintf("service error (status %d)", e.Status)
	case KindDecodingFailed:
		return fmt.Sprintf("failed to decode service response: %s", e.Detail)
	default:
		return fmt.Sprintf("unknown service error: %s", e.Detail)
	}
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the completions endpoint.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) { c.baseURL = u }
}

// WithModel overrides the model name.
func WithModel(m string) Option {
	return func(c *HTTPClient) { c.model = m }
}

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.httpc = h }
}

func NewHTTPClient(apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateCompletion sends a chat completion request and returns the
// first choice's content as freeform text.
func (c *HTTPClient) GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Kind: KindNoAPIKey}
	}
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", &Error{Kind: KindInvalidURL, Detail: c.baseURL}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &Error{Kind: KindUnknown, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindInvalidURL, Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &Error{Kind: KindConnectionFailed, Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindConnectionFailed, Detail: err.Error()}
	}

	if resp.StatusCode >= 500 {
		return "", &Error{Kind: KindServerError, Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		detail := ""
		var apiErr apiErrorBody
		if json.Unmarshal(respBody, &apiErr) == nil {
			detail = apiErr.Error.Message
		}
		return "", &Error{Kind: KindInvalidResponse, Status: resp.StatusCode, Detail: detail}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Kind: KindDecodingFailed, Detail: err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: KindInvalidResponse, Detail: "no choices returned"}
	}
	return parsed.Choices[0].Message.Content, nil
}
