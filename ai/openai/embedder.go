package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/simrank/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config, opts ...openai.Option) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local OpenAI-compatible services accept any token
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	clientOpts := []openai.Option{
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	}
	if config.Dimensions > 0 {
		clientOpts = append(clientOpts, openai.WithEmbeddingDimensions(config.Dimensions))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	// Input shaping belongs to embedding.Client, so the text goes out as given.
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(false))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		err = classify(ctx, err)
		e.logger.Debug("embedding request failed", "err", err)
		return nil, err
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ai.ErrMalformedResponse)
	}

	return vectors[0], nil
}

// classify maps a langchaingo failure onto the ai error classes.
// The underlying client flattens context errors into strings, so the
// attempt context is consulted first.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ai.ErrProviderError, ctxErr)
	}

	msg := err.Error()
	if errors.Is(err, openai.ErrEmptyResponse) || errors.Is(err, openai.ErrUnexpectedResponseLength) ||
		strings.Contains(msg, "decode response") || strings.HasSuffix(msg, "no response") {
		return fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	if m := statusCodePattern.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		return classifyStatus(code, err)
	}

	var llmErr *llms.Error
	if errors.As(openai.MapError(err), &llmErr) {
		switch llmErr.Code {
		case llms.ErrCodeRateLimit, llms.ErrCodeQuotaExceeded:
			return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
		case llms.ErrCodeInvalidRequest, llms.ErrCodeAuthentication, llms.ErrCodeResourceNotFound,
			llms.ErrCodeTokenLimit, llms.ErrCodeContentFilter:
			return fmt.Errorf("%w: %w", ai.ErrInvalidRequest, err)
		}
	}
	return fmt.Errorf("%w: %w", ai.ErrProviderError, err)
}

func classifyStatus(code int, err error) error {
	switch {
	case code == 429:
		return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
	case code >= 500:
		return fmt.Errorf("%w: %w", ai.ErrProviderError, err)
	case code >= 400:
		return fmt.Errorf("%w: %w", ai.ErrInvalidRequest, err)
	default:
		return fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}
}
