package modelrunner

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// binaryModelCertaintyCap softens binary models that never emit a neutral
// class: the winning polarity keeps at most this share, the rest becomes
// neutral mass.
const binaryModelCertaintyCap = 0.97

// Classifier adapts the model runner classification endpoint to
// domain.SentimentClassifier. Each supported model family gets its label
// scheme normalized to the canonical positive/negative/neutral triplet.
type Classifier struct {
	client DRMAPIClient
	model  string
	mapper labelMapper
	logger *log.Logger
}

// NewClassifier creates a Classifier for the given sentiment model.
func NewClassifier(client DRMAPIClient, model string, logger *log.Logger) Classifier {
	return Classifier{
		client: client,
		model:  model,
		mapper: mapperFor(model),
		logger: logger,
	}
}

// Classify implements domain.SentimentClassifier.
func (c Classifier) Classify(ctx context.Context, text string) (domain.SentimentDistribution, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	resp, err := c.client.Classify(spanCtx, ClassifyRequest{Model: c.model, Input: text})
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.SentimentDistribution{}, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0]) == 0 {
		err := fmt.Errorf("classify response has no data")
		telemetry.RecordErrorAndStatus(span, err)
		return domain.SentimentDistribution{}, err
	}

	dist := c.mapper(resp.Data[0])
	dist = normalizeDistribution(dist)
	return dist, nil
}

// labelMapper folds one model-specific ranked label list into the canonical
// triplet. Margin is filled in by normalizeDistribution.
type labelMapper func(scores []LabelScore) domain.SentimentDistribution

func mapperFor(model string) labelMapper {
	name := strings.ToLower(model)
	switch {
	case strings.Contains(name, "sst-2") || strings.Contains(name, "sst2"):
		return mapBinary
	case strings.Contains(name, "stars") || strings.Contains(name, "multilingual"):
		return mapStars
	default:
		// cardiffnlp roberta and anything else with explicit three-way labels
		return mapTernary
	}
}

// mapTernary handles LABEL_0/LABEL_1/LABEL_2 and spelled-out three-way labels.
func mapTernary(scores []LabelScore) domain.SentimentDistribution {
	var dist domain.SentimentDistribution
	for _, s := range scores {
		switch strings.ToLower(s.Label) {
		case "label_0", "negative":
			dist.Negative += s.Score
		case "label_1", "neutral":
			dist.Neutral += s.Score
		case "label_2", "positive":
			dist.Positive += s.Score
		}
	}
	return dist
}

// mapBinary handles POSITIVE/NEGATIVE models, capping certainty so the
// missing neutral class keeps a sliver of mass.
func mapBinary(scores []LabelScore) domain.SentimentDistribution {
	var dist domain.SentimentDistribution
	for _, s := range scores {
		switch strings.ToLower(s.Label) {
		case "positive":
			dist.Positive += s.Score * binaryModelCertaintyCap
		case "negative":
			dist.Negative += s.Score * binaryModelCertaintyCap
		}
	}
	dist.Neutral = 1 - dist.Positive - dist.Negative
	if dist.Neutral < 0 {
		dist.Neutral = 0
	}
	return dist
}

// mapStars buckets 1-5 star ratings: 1-2 negative, 3 neutral, 4-5 positive.
func mapStars(scores []LabelScore) domain.SentimentDistribution {
	var dist domain.SentimentDistribution
	for _, s := range scores {
		switch {
		case strings.HasPrefix(s.Label, "1") || strings.HasPrefix(s.Label, "2"):
			dist.Negative += s.Score
		case strings.HasPrefix(s.Label, "3"):
			dist.Neutral += s.Score
		case strings.HasPrefix(s.Label, "4") || strings.HasPrefix(s.Label, "5"):
			dist.Positive += s.Score
		}
	}
	return dist
}

// normalizeDistribution rescales the triplet to sum to 1 and computes the
// margin between the top two classes.
func normalizeDistribution(dist domain.SentimentDistribution) domain.SentimentDistribution {
	total := dist.Positive + dist.Negative + dist.Neutral
	if total <= 0 {
		return domain.SentimentDistribution{Neutral: 1}
	}
	dist.Positive /= total
	dist.Negative /= total
	dist.Neutral /= total

	ranked := []float64{dist.Positive, dist.Negative, dist.Neutral}
	sort.Sort(sort.Reverse(sort.Float64Slice(ranked)))
	dist.Margin = ranked[0] - ranked[1]
	return dist
}

// InitClassifier initializes the sentiment classifier and registers it in
// the dependency container. The classifier is optional: without a
// configured model the ensemble runs on the anchor path alone.
type InitClassifier struct {
	HttpClient     *http.Client `resolve:""`
	Logger         *log.Logger  `resolve:""`
	ModelHost      string       `config:"MODEL_RUNNER_HOST"`
	SentimentModel string       `config:"SENTIMENT_MODEL" default:""`
}

// Initialize registers the domain.SentimentClassifier implementation when a
// model is configured.
func (ic InitClassifier) Initialize(ctx context.Context) (context.Context, error) {
	if ic.SentimentModel == "" {
		ic.Logger.Printf("INFO no sentiment model configured, classifier path disabled")
		return ctx, nil
	}
	depend.Register[domain.SentimentClassifier](NewClassifier(
		NewDRMAPIClient(ic.ModelHost, "", ic.HttpClient),
		ic.SentimentModel,
		ic.Logger,
	))
	return ctx, nil
}
