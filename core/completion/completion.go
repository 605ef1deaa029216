package completion

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/deskgraph/deskgraph/internal/utils"
)

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "openai/gpt-4o-mini"
	defaultTemperature = 0.2

	defaultMaxAttempts       = 3
	defaultBackoffBase       = 1 * time.Second
	defaultBackoffMultiplier = 2.0
)

// Caller is the minimal completion interface the workflow layer depends on.
// *Client implements it; tests substitute fakes.
type Caller interface {
	Call(ctx context.Context, prompt string) (string, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
//
// The zero value is not usable; construct with [New] and adjust with the
// With* methods, which mutate and return the client for chaining.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64

	httpClient *http.Client

	maxAttempts       int
	backoffBase       time.Duration
	backoffMultiplier float64

	// sleep is swapped out in tests to observe the backoff sequence.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client configured from the environment:
// OPENROUTER_API_KEY, OPENROUTER_MODEL, and OPENROUTER_BASE_URL.
// Unset variables fall back to library defaults; an empty API key is allowed
// so local OpenAI-compatible servers work without credentials.
func New() *Client {
	c := &Client{
		apiKey:            os.Getenv("OPENROUTER_API_KEY"),
		baseURL:           defaultBaseURL,
		model:             defaultModel,
		temperature:       defaultTemperature,
		httpClient:        &http.Client{Timeout: 60 * time.Second},
		maxAttempts:       defaultMaxAttempts,
		backoffBase:       defaultBackoffBase,
		backoffMultiplier: defaultBackoffMultiplier,
		sleep:             sleepContext,
	}
	if model := os.Getenv("OPENROUTER_MODEL"); model != "" {
		c.model = model
	}
	if baseURL := os.Getenv("OPENROUTER_BASE_URL"); baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// WithAPIKey overrides the API key.
func (c *Client) WithAPIKey(apiKey string) *Client {
	c.apiKey = apiKey
	return c
}

// WithBaseURL overrides the service base URL (no trailing slash).
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// WithModel overrides the model identifier.
func (c *Client) WithModel(model string) *Client {
	c.model = model
	return c
}

// WithHTTPClient overrides the underlying HTTP client, e.g. to change
// timeouts or inject a test transport.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Call sends prompt as a single user message and returns the assistant's
// text. Failed attempts are retried with exponential backoff (1s, then 2s by
// default) up to the attempt budget; authentication failures abort
// immediately. The returned error is always a *Error.
func (c *Client) Call(ctx context.Context, prompt string) (string, error) {
	request := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}

	var lastErr *Error
	delay := c.backoffBase

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		content, callErr := c.callOnce(ctx, request)
		if callErr == nil {
			return content, nil
		}
		lastErr = callErr

		if !callErr.Retryable() {
			slog.Error("completion call failed, not retryable",
				"kind", callErr.Kind.String(), "attempt", attempt)
			return "", callErr
		}
		if attempt == c.maxAttempts {
			break
		}

		slog.Warn("completion call failed, retrying",
			"kind", callErr.Kind.String(),
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"backoff", delay.String())

		if err := c.sleep(ctx, delay); err != nil {
			return "", newError(KindGeneric, err, "aborted while waiting to retry")
		}
		delay = time.Duration(float64(delay) * c.backoffMultiplier)
	}

	slog.Error("completion call failed after all attempts",
		"kind", lastErr.Kind.String(), "attempts", c.maxAttempts)
	return "", lastErr
}

// callOnce performs a single HTTP round trip and extracts the message text.
func (c *Client) callOnce(ctx context.Context, request chatRequest) (string, *Error) {
	res, response, err := utils.DoPostSync[chatResponse](ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, request)
	if err != nil {
		// A 2xx with an undecodable body is a parse problem, not a wire one.
		if res != nil && res.StatusCode >= 200 && res.StatusCode < 300 {
			return "", newError(KindResponseParse, err, "malformed response body")
		}
		return "", classify(res, err)
	}

	if len(response.Choices) == 0 {
		return "", newError(KindResponseParse, nil, "response contained no choices")
	}
	content := response.Choices[0].Message.Content
	if content == "" {
		return "", newError(KindResponseParse, nil, "response message content is empty")
	}
	return content, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
