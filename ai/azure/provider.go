package azure

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/simrank/ai"
)

// Provider implements ai.Provider for Azure OpenAI.
type Provider struct {
	embedder *Embedder
	logger   *slog.Logger
}

// NewProvider creates an Azure OpenAI provider. The Provider field of config
// is ignored; the returned provider always speaks the Azure dialect.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	return newProvider(config, nil)
}

func newProvider(config *ai.Config, httpClient *http.Client) (*Provider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	cfg := *config
	cfg.Provider = ai.ProviderAzure
	embedder, err := newEmbedder(&cfg, httpClient)
	if err != nil {
		return nil, err
	}
	return &Provider{
		embedder: embedder,
		logger:   slog.Default().With("component", "azure-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (p *Provider) Close() error {
	p.logger.Debug("closing Azure provider")
	return nil
}
