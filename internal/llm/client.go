package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foldcraft/foldcraft-api/internal/logger"
	"github.com/foldcraft/foldcraft-api/internal/prompt"
	"github.com/foldcraft/foldcraft-api/internal/retry"
)

// OracleUnavailableError reports that every retry attempt against the oracle
// backend failed.
type OracleUnavailableError struct {
	Attempts int
	Err      error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("oracle unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *OracleUnavailableError) Unwrap() error {
	return e.Err
}

// Client wraps a Provider with the oracle retry policy. Generative-model
// backends are flaky and rate-limited; backoff trades latency for reliability
// without hammering the backend.
type Client struct {
	provider Provider
	model    string
	policy   retry.Policy
	sleep    retry.Sleeper // nil means real sleeping
}

// NewClient creates an oracle client with the default backoff policy.
func NewClient(provider Provider, model string) *Client {
	return &Client{
		provider: provider,
		model:    model,
		policy:   retry.DefaultPolicy(),
	}
}

// WithPolicy overrides the retry policy and sleeper; used by tests.
func (c *Client) WithPolicy(policy retry.Policy, sleep retry.Sleeper) *Client {
	c.policy = policy
	c.sleep = sleep
	return c
}

// Model returns the configured oracle model name.
func (c *Client) Model() string {
	return c.model
}

// Invoke submits one instruction document and returns the oracle's raw text.
// Any provider error is treated as retryable until attempts are exhausted.
func (c *Client) Invoke(ctx context.Context, doc *prompt.Document) (*GenerationResponse, error) {
	startTime := time.Now()
	attempts := 0

	response, err := retry.Do(ctx, c.policy, c.sleep,
		func(ctx context.Context) (*GenerationResponse, error) {
			attempts++
			return c.provider.Generate(ctx, &GenerationRequest{
				Model:        c.model,
				SystemPrompt: doc.SystemPrompt,
				UserPrompt:   doc.UserPrompt,
			})
		})

	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return nil, &OracleUnavailableError{Attempts: exhausted.Attempts, Err: exhausted.Last}
		}
		return nil, err
	}

	logger.LogOracleRequest(c.model, attempts, time.Since(startTime), logger.Fields{
		"provider":     c.provider.Name(),
		"total_tokens": response.Usage.TotalTokens,
	})

	return response, nil
}
