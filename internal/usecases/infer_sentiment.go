package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/semantics"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// SentimentPath selects which branch of the sentiment ensemble runs.
type SentimentPath string

const (
	// SentimentPath_Default runs the calibrated classifier with anchor
	// fallback.
	SentimentPath_Default SentimentPath = ""
	// SentimentPath_PerSentence classifies sentence by sentence and
	// aggregates by token weight.
	SentimentPath_PerSentence SentimentPath = "per_sentence"
	// SentimentPath_Anchors runs the encoder-only anchor path.
	SentimentPath_Anchors SentimentPath = "anchors"
	// SentimentPath_Blended mixes the calibrated classifier with the
	// anchor path by classifier margin.
	SentimentPath_Blended SentimentPath = "blended"
)

// InferSentiment defines the interface for the InferSentiment use case.
type InferSentiment interface {
	Execute(ctx context.Context, text string, path SentimentPath) (domain.SentimentResult, error)
}

// InferSentimentImpl is the implementation of the InferSentiment use case.
type InferSentimentImpl struct {
	ensemble semantics.SentimentEnsemble
}

// NewInferSentimentImpl creates a new instance of InferSentimentImpl.
func NewInferSentimentImpl(ensemble semantics.SentimentEnsemble) InferSentimentImpl {
	return InferSentimentImpl{ensemble: ensemble}
}

// Execute scores the sentiment of one text along the requested path.
func (isi InferSentimentImpl) Execute(ctx context.Context, text string, path SentimentPath) (domain.SentimentResult, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var (
		result domain.SentimentResult
		err    error
	)
	switch path {
	case SentimentPath_PerSentence:
		result, err = isi.ensemble.ClassifierSentiment(spanCtx, text, semantics.SentimentMode_PerSentence)
	case SentimentPath_Anchors:
		result, err = isi.ensemble.AnchorSentiment(spanCtx, text)
	case SentimentPath_Blended:
		result, err = isi.ensemble.BlendedSentiment(spanCtx, text)
	case SentimentPath_Default:
		result, err = isi.ensemble.InferSentiment(spanCtx, text)
	default:
		err = domain.NewValidationErr("unknown sentiment path: " + string(path))
	}
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.SentimentResult{}, err
	}

	return result, nil
}

// InitInferSentiment initializes the InferSentiment use case and registers
// it in the dependency container.
type InitInferSentiment struct {
	Ensemble semantics.SentimentEnsemble `resolve:""`
}

// Initialize registers the InferSentiment use case implementation.
func (iis InitInferSentiment) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[InferSentiment](NewInferSentimentImpl(iis.Ensemble))
	return ctx, nil
}
