package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "2023-07-01-preview", cfg.APIVersion)
	assert.Zero(t, cfg.Dimensions)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
	})

	t.Run("with custom host and model", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	})

	t.Run("with azure settings", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderAzure),
			WithEmbeddingHost("https://luia.openai.azure.com"),
			WithEmbeddingModel("matrix"),
			WithAPIKey("secret"),
			WithAPIVersion("2024-02-01"),
			WithDimensions(256),
		)

		assert.Equal(t, ProviderAzure, cfg.Provider)
		assert.Equal(t, "matrix", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, "2024-02-01", cfg.APIVersion)
		assert.Equal(t, 256, cfg.Dimensions)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name             string
		provider         string
		embeddingHost    string
		expectedProvider string
		expectedHost     string
	}{
		{
			name:             "already has /v1",
			provider:         ProviderOpenAI,
			embeddingHost:    "http://localhost:11434/v1",
			expectedProvider: ProviderOpenAI,
			expectedHost:     "http://localhost:11434/v1",
		},
		{
			name:             "missing /v1",
			provider:         ProviderOpenAI,
			embeddingHost:    "http://localhost:11434",
			expectedProvider: ProviderOpenAI,
			expectedHost:     "http://localhost:11434/v1",
		},
		{
			name:             "has trailing slash",
			provider:         ProviderOpenAI,
			embeddingHost:    "http://localhost:11434/",
			expectedProvider: ProviderOpenAI,
			expectedHost:     "http://localhost:11434/v1",
		},
		{
			name:             "empty host",
			provider:         ProviderOpenAI,
			embeddingHost:    "",
			expectedProvider: ProviderOpenAI,
			expectedHost:     "",
		},
		{
			name:             "empty provider defaults to openai",
			provider:         "",
			embeddingHost:    "http://embed:8080",
			expectedProvider: ProviderOpenAI,
			expectedHost:     "http://embed:8080/v1",
		},
		{
			name:             "azure keeps path and drops trailing slash",
			provider:         "Azure",
			embeddingHost:    "https://luia.openai.azure.com/",
			expectedProvider: ProviderAzure,
			expectedHost:     "https://luia.openai.azure.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Provider:      tt.provider,
				EmbeddingHost: tt.embeddingHost,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expectedProvider, cfg.Provider)
			assert.Equal(t, tt.expectedHost, cfg.EmbeddingHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{
			EmbeddingHost:  "http://localhost:11434",
			EmbeddingModel: "embeddinggemma",
		}

		err := cfg.Validate()
		require.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := &Config{
			EmbeddingModel: "embeddinggemma",
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := &Config{
			EmbeddingHost: "http://localhost:11434/v1",
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &Config{
			Provider:       "cohere",
			EmbeddingHost:  "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Provider")
	})

	t.Run("negative dimensions", func(t *testing.T) {
		cfg := NewConfig(WithDimensions(-1))

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Dimensions")
	})

	t.Run("azure requires api key", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderAzure),
			WithEmbeddingHost("https://luia.openai.azure.com"),
			WithEmbeddingModel("matrix"),
		)

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "APIKey")
	})

	t.Run("azure requires api version", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderAzure),
			WithEmbeddingHost("https://luia.openai.azure.com"),
			WithEmbeddingModel("matrix"),
			WithAPIKey("secret"),
			WithAPIVersion(""),
		)

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "APIVersion")
	})

	t.Run("valid azure config", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderAzure),
			WithEmbeddingHost("https://luia.openai.azure.com/"),
			WithEmbeddingModel("matrix"),
			WithAPIKey("secret"),
		)

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "https://luia.openai.azure.com", cfg.EmbeddingHost)
	})
}
