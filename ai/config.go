// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Supported provider identifiers.
const (
	// ProviderOpenAI targets OpenAI or any OpenAI-compatible server (Ollama, LocalAI, vLLM).
	ProviderOpenAI = "openai"

	// ProviderAzure targets an Azure OpenAI resource, where the model is a deployment name.
	ProviderAzure = "azure"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the implementation: ProviderOpenAI or ProviderAzure.
	// Default: ProviderOpenAI
	Provider string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server,
	// "https://myresource.openai.azure.com" for Azure.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// For Azure this is the deployment name.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// APIKey authenticates against the provider. Local OpenAI-compatible
	// servers usually accept any value.
	APIKey string

	// APIVersion is the Azure OpenAI API version. Ignored by other providers.
	// Default: "2023-07-01-preview"
	APIVersion string

	// Dimensions requests a specific output length from models that support it.
	// Zero leaves the choice to the model.
	Dimensions int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the provider implementation.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithAPIVersion sets the Azure OpenAI API version.
func WithAPIVersion(version string) ConfigOption {
	return func(c *Config) {
		c.APIVersion = version
	}
}

// WithDimensions sets the requested embedding dimensionality.
func WithDimensions(dimensions int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dimensions
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		APIVersion:     "2023-07-01-preview",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
//
// Example for Azure:
//
//	cfg := NewConfig(
//	    WithProvider(ProviderAzure),
//	    WithEmbeddingHost("https://myresource.openai.azure.com"),
//	    WithEmbeddingModel("my-embedding-deployment"),
//	    WithAPIKey(os.Getenv("AZURE_OPENAI_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Provider names are lowercased. OpenAI-compatible hosts get the /v1 suffix
// most servers (Ollama, LocalAI, vLLM) require; Azure hosts lose any
// trailing slash since the client builds deployment paths itself.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}

	if c.EmbeddingHost == "" {
		return
	}
	switch c.Provider {
	case ProviderAzure:
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
	default:
		if !strings.HasSuffix(c.EmbeddingHost, "/v1") {
			// Remove trailing slash if present before adding /v1
			c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
			c.EmbeddingHost = c.EmbeddingHost + "/v1"
		}
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.Provider != ProviderOpenAI && c.Provider != ProviderAzure {
		return errors.New("ai config: Provider must be one of openai, azure")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimensions < 0 {
		return errors.New("ai config: Dimensions cannot be negative")
	}
	if c.Provider == ProviderAzure {
		if c.APIKey == "" {
			return errors.New("ai config: APIKey is required for azure")
		}
		if c.APIVersion == "" {
			return errors.New("ai config: APIVersion is required for azure")
		}
	}
	return nil
}
