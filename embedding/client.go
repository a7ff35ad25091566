package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/poiesic/simrank/ai"
)

// ClientConfig controls how a Client talks to its provider.
type ClientConfig struct {
	// MaxAttempts is the total number of attempts per text, including the first.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the wait before the first retry; it doubles on each retry.
	// Default: 250ms
	BaseDelay time.Duration

	// MaxDelay caps a single backoff delay before jitter. Zero means uncapped.
	// Default: 5s
	MaxDelay time.Duration

	// RequestTimeout bounds each individual attempt. Zero means no per-attempt bound.
	// Default: 30s
	RequestTimeout time.Duration

	// StripNewLines replaces newlines with spaces before sending text.
	StripNewLines bool
}

// DefaultClientConfig returns the default client settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		MaxAttempts:    3,
		BaseDelay:      250 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// Client fetches a single embedding from an ai.Embedder with per-attempt
// timeouts, bounded retries and response validation. It does not cache.
type Client struct {
	embedder ai.Embedder
	config   ClientConfig
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// WithClientLogger sets the logger. A nil logger selects slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "embedding-client")
		return nil
	}
}

// NewClient creates a Client around embedder.
func NewClient(embedder ai.Embedder, config ClientConfig, opts ...ClientOption) (*Client, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config.MaxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}

	c := &Client{
		embedder: embedder,
		config:   config,
		logger:   slog.Default().With("component", "embedding-client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Config returns the client's settings.
func (c *Client) Config() ClientConfig {
	return c.config
}

// Embed returns the embedding vector for text.
//
// Empty or whitespace-only text fails with ErrInvalidInput without contacting
// the provider. If ctx ends, Embed stops retrying and returns ctx.Err().
// Every other failure is ErrEmbeddingFailed joined with the provider's error
// class.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	input := text
	if c.config.StripNewLines {
		input = strings.ReplaceAll(input, "\n", " ")
	}

	var vector []float32
	attempts := 0
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		v, err := c.attempt(ctx, input)
		if err != nil {
			return err
		}
		vector = v
		return nil
	}, c.config.MaxAttempts, c.config.BaseDelay, c.config.MaxDelay, ai.IsRetryable)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("embedding failed", "attempts", attempts, "length", len(text), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	return vector, nil
}

// FetchFunc adapts Embed for text into a cache fetch.
func (c *Client) FetchFunc(text string) FetchFunc {
	return func(ctx context.Context) ([]float32, error) {
		return c.Embed(ctx, text)
	}
}

func (c *Client) attempt(ctx context.Context, input string) ([]float32, error) {
	attemptCtx := ctx
	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	vector, err := c.embedder.EmbedText(attemptCtx, input)
	if err != nil {
		// An attempt that ran out its own time is a transient provider failure.
		if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) &&
			!errors.Is(err, ai.ErrProviderError) {
			return nil, fmt.Errorf("%w: request timed out after %s: %w", ai.ErrProviderError, c.config.RequestTimeout, err)
		}
		return nil, err
	}

	if err := validateVector(vector); err != nil {
		return nil, err
	}
	return vector, nil
}

func validateVector(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", ai.ErrMalformedResponse)
	}
	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite component at index %d", ai.ErrMalformedResponse, i)
		}
	}
	return nil
}
