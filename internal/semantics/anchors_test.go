package semantics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorIndex_EmbedsOnce(t *testing.T) {
	var calls atomic.Int64
	enc := fakeEncoder{
		vectorizeText: func(_ context.Context, text string) (domain.EmbeddingVector, error) {
			calls.Add(1)
			return domain.EmbeddingVector{Vector: []float64{1, 0}}, nil
		},
	}
	index := NewAnchorIndex(enc, discardLogger())

	_, err := index.FacetAnchors(context.Background(), domain.Facet_Feeling)
	require.NoError(t, err)
	after := calls.Load()
	assert.Greater(t, after, int64(0))

	// second access reuses the cache across anchor families
	_, err = index.SentimentCentroid(context.Background(), domain.Sentiment_Positive)
	require.NoError(t, err)
	assert.Equal(t, after, calls.Load())
}

func TestAnchorIndex_ResetForcesReembedding(t *testing.T) {
	var calls atomic.Int64
	enc := fakeEncoder{
		vectorizeText: func(_ context.Context, text string) (domain.EmbeddingVector, error) {
			calls.Add(1)
			return domain.EmbeddingVector{Vector: []float64{1, 0}}, nil
		},
	}
	index := NewAnchorIndex(enc, discardLogger())

	_, err := index.FacetAnchors(context.Background(), domain.Facet_Feeling)
	require.NoError(t, err)
	first := calls.Load()

	index.Reset()

	_, err = index.FacetAnchors(context.Background(), domain.Facet_Feeling)
	require.NoError(t, err)
	assert.Equal(t, first*2, calls.Load())
}

func TestAnchorIndex_EncoderFailureIsNotCached(t *testing.T) {
	fail := true
	enc := fakeEncoder{
		vectorizeText: func(_ context.Context, text string) (domain.EmbeddingVector, error) {
			if fail {
				return domain.EmbeddingVector{}, errors.New("backend down")
			}
			return domain.EmbeddingVector{Vector: []float64{1, 0}}, nil
		},
	}
	index := NewAnchorIndex(enc, discardLogger())

	_, err := index.FacetAnchors(context.Background(), domain.Facet_Feeling)
	require.Error(t, err)

	fail = false
	vectors, err := index.FacetAnchors(context.Background(), domain.Facet_Feeling)
	require.NoError(t, err)
	assert.NotEmpty(t, vectors)
}

func TestAnchorIndex_NegativeSubtypeCentroids(t *testing.T) {
	const dim = 4
	enc := newAxisEncoder(dim)
	for _, phrases := range domain.NegativeSubtypes {
		enc.register(axis(dim, 1), phrases...)
	}
	index := NewAnchorIndex(enc, discardLogger())

	centroids, err := index.NegativeSubtypeCentroids(context.Background())
	require.NoError(t, err)

	require.Len(t, centroids, len(domain.NegativeSubtypes))
	for subtype, centroid := range centroids {
		assert.InDelta(t, 1.0, vectorNorm(centroid), 1e-9, "subtype %s centroid must be unit length", subtype)
	}
}
