package semantics

import (
	"context"
	"errors"
	"testing"

	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_Analyze(t *testing.T) {
	const dim = 4
	enc := newAxisEncoder(dim)
	enc.register([]float64{1, 0, 0, 0}, "First thing happened.", "Second thing happened.")
	enc.register([]float64{0, 1, 0, 0}, "Third thing happened.")

	analyzer := NewAnalyzer(enc)

	analysis, err := analyzer.Analyze(context.Background(), "First thing happened. Second thing happened. Third thing happened.")
	require.NoError(t, err)

	require.Len(t, analysis.Sentences, 3)
	assert.Equal(t, "First thing happened.", analysis.Sentences[0].Text)
	assert.Equal(t, 0, analysis.Sentences[0].Index)
	assert.Equal(t, 2, analysis.Sentences[2].Index)

	// centroid is the plain mean of the sentence vectors
	assert.InDelta(t, 2.0/3, analysis.Centroid[0], 1e-9)
	assert.InDelta(t, 1.0/3, analysis.Centroid[1], 1e-9)

	// salience is min-max normalized cosine to the centroid
	assert.InDelta(t, 1.0, analysis.Sentences[0].Salience, 1e-9)
	assert.InDelta(t, 1.0, analysis.Sentences[1].Salience, 1e-9)
	assert.InDelta(t, 0.0, analysis.Sentences[2].Salience, 1e-9)
}

func TestAnalyzer_Analyze_EmptyText(t *testing.T) {
	enc := fakeEncoder{
		vectorizeText: func(context.Context, string) (domain.EmbeddingVector, error) {
			t.Fatal("encoder must not be called for empty text")
			return domain.EmbeddingVector{}, nil
		},
	}
	analyzer := NewAnalyzer(enc)

	analysis, err := analyzer.Analyze(context.Background(), "   \n  ")
	require.NoError(t, err)

	assert.Empty(t, analysis.Sentences)
	assert.Nil(t, analysis.Centroid)
}

func TestAnalyzer_Analyze_EncoderError(t *testing.T) {
	enc := fakeEncoder{
		vectorizeText: func(context.Context, string) (domain.EmbeddingVector, error) {
			return domain.EmbeddingVector{}, errors.New("backend down")
		},
	}
	analyzer := NewAnalyzer(enc)

	_, err := analyzer.Analyze(context.Background(), "Some text here.")

	assert.Error(t, err)
}

func TestAnalyzer_Analyze_SingleSentenceSalience(t *testing.T) {
	const dim = 4
	enc := newAxisEncoder(dim)
	enc.register([]float64{1, 0, 0, 0}, "Only one sentence here.")
	analyzer := NewAnalyzer(enc)

	analysis, err := analyzer.Analyze(context.Background(), "Only one sentence here.")
	require.NoError(t, err)

	require.Len(t, analysis.Sentences, 1)
	// all-equal cosines normalize to the midpoint
	assert.InDelta(t, 0.5, analysis.Sentences[0].Salience, 1e-9)
}
