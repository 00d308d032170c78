package domain

import "context"

// EmbeddingVector is a semantic vector plus token accounting.
type EmbeddingVector struct {
	Vector      []float64
	TotalTokens int
}

// SemanticEncoder defines embedding/vectorization behavior in domain terms.
// It is the required backend: the summarizer, facet scorer, theme engine and
// anchor-based sentiment cannot degrade without it. Embeddings must be
// deterministic for identical input within a session.
type SemanticEncoder interface {
	// VectorizeText generates a semantic vector for one sentence or passage.
	VectorizeText(ctx context.Context, text string) (EmbeddingVector, error)
	// VectorizeQuery generates a semantic vector for one search input.
	VectorizeQuery(ctx context.Context, query string) (EmbeddingVector, error)
}

// SentimentClassifier produces the canonical three-way distribution for a
// text. Implementations normalize whatever label scheme their model emits
// (binary, star ratings, ternary) before returning.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (SentimentDistribution, error)
}

// GenerationOptions are the decoding knobs passed to the text generator.
type GenerationOptions struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// TextGenerator is the optional generation backend used for theme naming and
// multi-tag extraction. Its output is free text expected to contain JSON or
// a short bracketed label; callers parse it defensively and must treat any
// failure as "no result", never as fatal.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}
