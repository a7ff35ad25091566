package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/simrank/ai"
	"github.com/poiesic/simrank/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() ClientConfig {
	return ClientConfig{
		MaxAttempts:    3,
		BaseDelay:      time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		RequestTimeout: time.Second,
	}
}

func TestNewClient(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewClient(nil, DefaultClientConfig())
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("zero attempts", func(t *testing.T) {
		cfg := DefaultClientConfig()
		cfg.MaxAttempts = 0
		_, err := NewClient(mock.NewMockEmbedder(), cfg)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := NewClient(mock.NewMockEmbedder(), DefaultClientConfig(), WithClientLogger(nil))
		require.NoError(t, err)
		assert.Equal(t, 3, c.Config().MaxAttempts)
		assert.Equal(t, 30*time.Second, c.Config().RequestTimeout)
	})
}

func TestClientEmbed(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		m := mock.NewMockEmbedder()
		c, err := NewClient(m, fastConfig())
		require.NoError(t, err)

		vec, err := c.Embed(ctx, "graph neural networks")
		require.NoError(t, err)
		assert.Equal(t, mock.DeterministicVector("graph neural networks", mock.DefaultDimensions), vec)
		assert.Equal(t, 1, m.CallCount())
	})

	t.Run("empty and blank input", func(t *testing.T) {
		m := mock.NewMockEmbedder()
		c, err := NewClient(m, fastConfig())
		require.NoError(t, err)

		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := c.Embed(ctx, text)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
		assert.Zero(t, m.CallCount(), "invalid input must not reach the provider")
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls atomic.Int32
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			if calls.Add(1) < 3 {
				return nil, fmt.Errorf("%w: 429", ai.ErrRateLimited)
			}
			return []float32{1, 0}, nil
		})
		c, err := NewClient(m, fastConfig())
		require.NoError(t, err)

		vec, err := c.Embed(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 0}, vec)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			return nil, fmt.Errorf("%w: 503", ai.ErrProviderError)
		})
		c, err := NewClient(m, fastConfig())
		require.NoError(t, err)

		_, err = c.Embed(ctx, "q")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmbeddingFailed)
		assert.ErrorIs(t, err, ai.ErrProviderError)
		assert.Equal(t, 3, m.CallCount())
	})

	t.Run("does not retry invalid requests", func(t *testing.T) {
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			return nil, fmt.Errorf("%w: 400", ai.ErrInvalidRequest)
		})
		c, err := NewClient(m, fastConfig())
		require.NoError(t, err)

		_, err = c.Embed(ctx, "q")
		assert.ErrorIs(t, err, ErrEmbeddingFailed)
		assert.ErrorIs(t, err, ai.ErrInvalidRequest)
		assert.Equal(t, 1, m.CallCount())
	})

	t.Run("rejects malformed vectors", func(t *testing.T) {
		tests := map[string][]float32{
			"empty": {},
			"nan":   {0.1, float32(math.NaN())},
			"inf":   {float32(math.Inf(1)), 0.2},
		}
		for name, bad := range tests {
			t.Run(name, func(t *testing.T) {
				m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
					return bad, nil
				})
				c, err := NewClient(m, fastConfig())
				require.NoError(t, err)

				_, err = c.Embed(ctx, "q")
				assert.ErrorIs(t, err, ErrEmbeddingFailed)
				assert.ErrorIs(t, err, ai.ErrMalformedResponse)
				assert.Equal(t, 1, m.CallCount(), "malformed responses are not retried")
			})
		}
	})

	t.Run("per attempt timeout is retried", func(t *testing.T) {
		var calls atomic.Int32
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return []float32{0.5}, nil
		})
		cfg := fastConfig()
		cfg.RequestTimeout = 10 * time.Millisecond
		c, err := NewClient(m, cfg)
		require.NoError(t, err)

		vec, err := c.Embed(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.5}, vec)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("caller cancellation", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			cancel()
			return nil, fmt.Errorf("%w: 503", ai.ErrProviderError)
		})
		c, err := NewClient(m, fastConfig())
		require.NoError(t, err)

		_, err = c.Embed(cancelCtx, "q")
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, errors.Is(err, ErrEmbeddingFailed))
	})

	t.Run("strips newlines when configured", func(t *testing.T) {
		var got string
		m := mock.NewMockEmbedder().WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
			got = text
			return []float32{1}, nil
		})
		cfg := fastConfig()
		cfg.StripNewLines = true
		c, err := NewClient(m, cfg)
		require.NoError(t, err)

		_, err = c.Embed(ctx, "a\nb")
		require.NoError(t, err)
		assert.Equal(t, "a b", got)
	})
}
