// Package semantics implements the incremental semantic-aggregation engine:
// sentence analysis, extractive summarization, facet scoring, theme
// clustering and the sentiment ensemble. All components consume the model
// backends through the domain ports and are deterministic given a
// deterministic encoder.
package semantics

import (
	"context"
	"fmt"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// Analyzer turns raw entry text into sentence vectors with salience weights.
// Every downstream component works off the same analysis.
type Analyzer struct {
	encoder domain.SemanticEncoder
}

// NewAnalyzer creates an Analyzer backed by the given encoder.
func NewAnalyzer(encoder domain.SemanticEncoder) Analyzer {
	return Analyzer{encoder: encoder}
}

// Analysis is the shared per-entry result: ordered sentence vectors and the
// document centroid (plain mean, not normalized). TotalTokens sums the
// encoder's token accounting across all sentences.
type Analysis struct {
	Sentences   []domain.SentenceVector
	Centroid    []float64
	TotalTokens int
}

// Analyze segments the text, embeds each sentence and computes salience as
// the min-max normalized cosine of each sentence to the document centroid.
// Empty text yields an empty analysis without touching the encoder.
func (a Analyzer) Analyze(ctx context.Context, text string) (Analysis, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	sentences := domain.SplitSentences(text)
	if len(sentences) == 0 {
		return Analysis{}, nil
	}

	vectors := make([][]float64, len(sentences))
	totalTokens := 0
	for i, sentence := range sentences {
		embedding, err := a.encoder.VectorizeText(spanCtx, sentence)
		if telemetry.RecordErrorAndStatus(span, err) {
			return Analysis{}, fmt.Errorf("vectorize sentence %d: %w", i, err)
		}
		vectors[i] = embedding.Vector
		totalTokens += embedding.TotalTokens
	}

	centroid := common.MeanVector(vectors)

	rawSalience := make([]float64, len(sentences))
	for i, vec := range vectors {
		rawSalience[i] = common.Cosine(vec, centroid)
	}
	salience := common.MinMaxNormalize01(rawSalience)

	analysis := Analysis{
		Sentences:   make([]domain.SentenceVector, len(sentences)),
		Centroid:    centroid,
		TotalTokens: totalTokens,
	}
	for i, sentence := range sentences {
		analysis.Sentences[i] = domain.SentenceVector{
			Index:    i,
			Text:     sentence,
			Vector:   vectors[i],
			Salience: salience[i],
		}
	}
	return analysis, nil
}

// InitAnalyzer registers the Analyzer in the dependency container.
type InitAnalyzer struct {
	Encoder domain.SemanticEncoder `resolve:""`
}

// Initialize registers the Analyzer dependency.
func (ia InitAnalyzer) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register(NewAnalyzer(ia.Encoder))
	return ctx, nil
}
