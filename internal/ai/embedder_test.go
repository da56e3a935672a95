package ai

import (
	"context"
	"os"
	"testing"

	"recipe-search-platform/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	dims  int
	calls int
	vec   []float32
}

func (s *stubEmbedder) Dimensions() int { return s.dims }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.vec != nil {
		return s.vec, nil
	}
	return make([]float32, s.dims), nil
}

func TestValidateInputRejectsBlankText(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := validateInput(input)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.InvalidInput))
	}

	trimmed, err := validateInput("  tomato soup  ")
	require.NoError(t, err)
	assert.Equal(t, "tomato soup", trimmed)
}

func TestValidateVectorEnforcesDimensionality(t *testing.T) {
	err := validateVector(make([]float32, 10), 1536)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.MalformedResponse))

	assert.NoError(t, validateVector(make([]float32, 1536), 1536))
}

func TestCachedEmbedderValidatesBeforeInnerCall(t *testing.T) {
	inner := &stubEmbedder{dims: 8}
	cached := NewCachedEmbedder(inner, nil, 0)

	_, err := cached.Embed(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
	assert.Zero(t, inner.calls, "invalid input must not reach the provider")
}

func TestCachedEmbedderPassesThroughWithoutRedis(t *testing.T) {
	inner := &stubEmbedder{dims: 8}
	cached := NewCachedEmbedder(inner, nil, 0)

	vec, err := cached.Embed(context.Background(), "tomato soup")
	require.NoError(t, err)
	assert.Len(t, vec, 8)
	assert.Equal(t, 1, inner.calls)
}

func TestOpenAIEmbedderLive(t *testing.T) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("OPENAI_API_KEY not set")
	}
	emb := NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"), "text-embedding-ada-002", 1536, nil)
	vec, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("embedding error: %v", err)
	}
	if len(vec) != 1536 {
		t.Fatalf("unexpected vector length: %d", len(vec))
	}
}
