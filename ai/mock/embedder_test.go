package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "some text")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "some text")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := embedder.EmbedText(ctx, "different text")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	embedder := NewMockEmbedder()

	vector, err := embedder.EmbedText(context.Background(), "some text")
	require.NoError(t, err)
	require.Len(t, vector, 384)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4)
}
