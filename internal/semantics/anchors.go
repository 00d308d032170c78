package semantics

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
)

// AnchorIndex embeds and caches the fixed anchor phrases used by the facet
// scorer and the sentiment ensemble. Anchor vectors are computed once per
// process and reused for the session; the lists are compile-time constants,
// so the cache is only invalidated by an explicit Reset or a restart.
type AnchorIndex struct {
	encoder domain.SemanticEncoder
	logger  *log.Logger

	mu                sync.Mutex
	ready             bool
	facetAnchors      map[domain.Facet][][]float64
	sentimentCentroid map[domain.SentimentLabel][]float64
	negativeSubtypes  map[string][]float64
}

// NewAnchorIndex creates an empty index; anchors are embedded lazily on
// first use so a slow model backend does not block startup.
func NewAnchorIndex(encoder domain.SemanticEncoder, logger *log.Logger) *AnchorIndex {
	return &AnchorIndex{
		encoder: encoder,
		logger:  logger,
	}
}

// FacetAnchors returns the embedded anchor vectors for one facet.
func (a *AnchorIndex) FacetAnchors(ctx context.Context, facet domain.Facet) ([][]float64, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}
	return a.facetAnchors[facet], nil
}

// SentimentCentroid returns the normalized anchor centroid for one class.
func (a *AnchorIndex) SentimentCentroid(ctx context.Context, label domain.SentimentLabel) ([]float64, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}
	return a.sentimentCentroid[label], nil
}

// NegativeSubtypeCentroids returns the per-subtype negative centroids.
func (a *AnchorIndex) NegativeSubtypeCentroids(ctx context.Context) (map[string][]float64, error) {
	if err := a.ensure(ctx); err != nil {
		return nil, err
	}
	return a.negativeSubtypes, nil
}

// Reset drops all cached vectors. The next lookup re-embeds every anchor.
func (a *AnchorIndex) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ready = false
	a.facetAnchors = nil
	a.sentimentCentroid = nil
	a.negativeSubtypes = nil
}

func (a *AnchorIndex) ensure(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}

	facetAnchors := map[domain.Facet][][]float64{}
	for facet, phrases := range domain.FacetAnchors {
		vectors, err := a.embedAll(ctx, phrases)
		if err != nil {
			return fmt.Errorf("embed %s anchors: %w", facet, err)
		}
		facetAnchors[facet] = vectors
	}

	sentimentCentroid := map[domain.SentimentLabel][]float64{}
	for label, phrases := range domain.SentimentAnchors {
		vectors, err := a.embedAll(ctx, phrases)
		if err != nil {
			return fmt.Errorf("embed %s sentiment anchors: %w", label, err)
		}
		sentimentCentroid[label] = common.NormalizeVector(common.MeanVector(vectors))
	}

	negativeSubtypes := map[string][]float64{}
	for subtype, phrases := range domain.NegativeSubtypes {
		vectors, err := a.embedAll(ctx, phrases)
		if err != nil {
			return fmt.Errorf("embed negative subtype %s anchors: %w", subtype, err)
		}
		negativeSubtypes[subtype] = common.NormalizeVector(common.MeanVector(vectors))
	}

	a.facetAnchors = facetAnchors
	a.sentimentCentroid = sentimentCentroid
	a.negativeSubtypes = negativeSubtypes
	a.ready = true
	a.logger.Println("AnchorIndex: anchor vectors embedded and cached")
	return nil
}

func (a *AnchorIndex) embedAll(ctx context.Context, phrases []string) ([][]float64, error) {
	vectors := make([][]float64, len(phrases))
	for i, phrase := range phrases {
		embedding, err := a.encoder.VectorizeText(ctx, phrase)
		if err != nil {
			return nil, err
		}
		vectors[i] = embedding.Vector
	}
	return vectors, nil
}

// InitAnchorIndex registers the anchor index in the dependency container.
type InitAnchorIndex struct {
	Encoder domain.SemanticEncoder `resolve:""`
	Logger  *log.Logger            `resolve:""`
}

// Initialize registers the AnchorIndex dependency.
func (ia InitAnchorIndex) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register(NewAnchorIndex(ia.Encoder, ia.Logger))
	return ctx, nil
}
