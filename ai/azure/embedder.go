package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/simrank/ai"
	"github.com/sashabaranov/go-openai"
)

// Embedder implements ai.Embedder against an Azure OpenAI embedding deployment.
type Embedder struct {
	client     *openai.Client
	deployment string
	dimensions int
	logger     *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

func newEmbedder(config *ai.Config, httpClient *http.Client) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultAzureConfig(config.APIKey, config.EmbeddingHost)
	clientConfig.APIVersion = config.APIVersion
	// Deployment names are used verbatim.
	clientConfig.AzureModelMapperFunc = func(model string) string {
		return model
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientConfig),
		deployment: config.EmbeddingModel,
		dimensions: config.Dimensions,
		logger:     slog.Default().With("component", "azure-embedder"),
	}, nil
}

// NewEmbedder creates an Azure embedder. EmbeddingModel in config names the deployment.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config, nil)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding", "deployment", e.deployment, "length", len(text))

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.deployment),
		Dimensions: e.dimensions,
	})
	if err != nil {
		err = classify(ctx, err)
		e.logger.Debug("embedding request failed", "err", err)
		return nil, err
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ai.ErrMalformedResponse)
	}
	return resp.Data[0].Embedding, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ai.ErrProviderError, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	return fmt.Errorf("%w: %w", ai.ErrProviderError, err)
}

func classifyStatus(code int, err error) error {
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
	case code >= 500:
		return fmt.Errorf("%w: %w", ai.ErrProviderError, err)
	case code >= 400:
		return fmt.Errorf("%w: %w", ai.ErrInvalidRequest, err)
	default:
		return fmt.Errorf("%w: %w", ai.ErrProviderError, err)
	}
}
