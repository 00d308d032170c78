package semantics

import (
	"context"
	"time"

	"github.com/nickspeelman/reflect/internal/domain"
)

// axisEncoder is a deterministic encoder for tests: each registered phrase
// maps to a fixed vector, unknown text falls back to a default axis. It
// gives full control over every cosine the engine computes.
type axisEncoder struct {
	vectors  map[string][]float64
	fallback []float64
}

func newAxisEncoder(dim int) *axisEncoder {
	fallback := make([]float64, dim)
	fallback[dim-1] = 1
	return &axisEncoder{vectors: map[string][]float64{}, fallback: fallback}
}

func axis(dim, i int) []float64 {
	v := make([]float64, dim)
	v[i] = 1
	return v
}

func (e *axisEncoder) register(vec []float64, phrases ...string) {
	for _, p := range phrases {
		e.vectors[p] = vec
	}
}

func (e *axisEncoder) lookup(text string) []float64 {
	if v, ok := e.vectors[text]; ok {
		return v
	}
	return e.fallback
}

func (e *axisEncoder) VectorizeText(_ context.Context, text string) (domain.EmbeddingVector, error) {
	return domain.EmbeddingVector{Vector: e.lookup(text), TotalTokens: 1}, nil
}

func (e *axisEncoder) VectorizeQuery(_ context.Context, query string) (domain.EmbeddingVector, error) {
	return domain.EmbeddingVector{Vector: e.lookup(query), TotalTokens: 1}, nil
}

type fakeEncoder struct {
	vectorizeText  func(ctx context.Context, text string) (domain.EmbeddingVector, error)
	vectorizeQuery func(ctx context.Context, query string) (domain.EmbeddingVector, error)
}

func (f fakeEncoder) VectorizeText(ctx context.Context, text string) (domain.EmbeddingVector, error) {
	return f.vectorizeText(ctx, text)
}

func (f fakeEncoder) VectorizeQuery(ctx context.Context, query string) (domain.EmbeddingVector, error) {
	return f.vectorizeQuery(ctx, query)
}

type fakeClassifier struct {
	classify func(ctx context.Context, text string) (domain.SentimentDistribution, error)
}

func (f fakeClassifier) Classify(ctx context.Context, text string) (domain.SentimentDistribution, error) {
	return f.classify(ctx, text)
}

type fakeGenerator struct {
	generate func(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error)
}

func (f fakeGenerator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	return f.generate(ctx, prompt, opts)
}

type stubTimeProvider struct {
	now time.Time
}

func (s stubTimeProvider) Now() time.Time {
	return s.now
}

// registerSentimentAnchors points every sentiment anchor phrase at the given
// per-label axes so centroid cosines are exact.
func registerSentimentAnchors(enc *axisEncoder, pos, neg, neu []float64) {
	enc.register(pos, domain.SentimentAnchors[domain.Sentiment_Positive]...)
	enc.register(neg, domain.SentimentAnchors[domain.Sentiment_Negative]...)
	enc.register(neu, domain.SentimentAnchors[domain.Sentiment_Neutral]...)
	for _, phrases := range domain.NegativeSubtypes {
		enc.register(neg, phrases...)
	}
}

// registerFacetAnchors points every facet anchor phrase at per-facet axes.
func registerFacetAnchors(enc *axisEncoder, feeling, event, intent []float64) {
	enc.register(feeling, domain.FacetAnchors[domain.Facet_Feeling]...)
	enc.register(event, domain.FacetAnchors[domain.Facet_Event]...)
	enc.register(intent, domain.FacetAnchors[domain.Facet_Intent]...)
}
