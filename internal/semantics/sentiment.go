package semantics

import (
	"context"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// Calibration constants for the classifier path. The temperature softens the
// near-binary confidences these models emit; the neutral band grows as the
// softened margin shrinks.
const (
	sentimentTemperature = 3    // logit temperature, >1 softens
	sentimentNeutralGamma = 1.15 // curve of the neutral band
	sentimentNeutralMin   = 0.05 // neutral mass never drops below this
	sentimentMinTokens    = 3    // per-sentence mode skips shorter sentences

	anchorSoftmaxTemp = 0.55 // sharpened softmax over anchor cosines
	anchorNeutralTau  = 0.03 // margin below which the anchor path says neutral
)

// SentimentMode selects how the classifier path consumes the text.
type SentimentMode string

const (
	// SentimentMode_Full classifies the whole text in one pass.
	SentimentMode_Full SentimentMode = "full"
	// SentimentMode_PerSentence classifies sentence by sentence and
	// aggregates with token-count weights.
	SentimentMode_PerSentence SentimentMode = "per_sentence"
)

// SentimentEnsemble produces a calibrated three-way sentiment for entry
// text. The classifier path is primary; the anchor path is a deterministic
// embedding-based scorer used as fallback when the classifier backend is
// missing or failing, and as the second voice in blended mode.
type SentimentEnsemble struct {
	classifier domain.SentimentClassifier
	analyzer   Analyzer
	anchors    *AnchorIndex
	logger     *log.Logger
}

// NewSentimentEnsemble creates a SentimentEnsemble. A nil classifier is
// allowed; every inference then takes the anchor path.
func NewSentimentEnsemble(
	classifier domain.SentimentClassifier,
	analyzer Analyzer,
	anchors *AnchorIndex,
	logger *log.Logger,
) SentimentEnsemble {
	return SentimentEnsemble{
		classifier: classifier,
		analyzer:   analyzer,
		anchors:    anchors,
		logger:     logger,
	}
}

// InferSentiment is the default entry point: the calibrated classifier in
// full mode, falling back to the anchor path when the classifier is absent
// or errors.
func (e SentimentEnsemble) InferSentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NeutralSentiment(), nil
	}

	if e.classifier != nil {
		result, err := e.ClassifierSentiment(spanCtx, text, SentimentMode_Full)
		if err == nil {
			return result, nil
		}
		e.logger.Printf("WARN sentiment classifier failed, using anchor path: %v", err)
	}

	result, err := e.AnchorSentiment(spanCtx, text)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.SentimentResult{}, err
	}
	return result, nil
}

// ClassifierSentiment runs the calibrated classifier path in the given mode.
func (e SentimentEnsemble) ClassifierSentiment(ctx context.Context, text string, mode SentimentMode) (domain.SentimentResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NeutralSentiment(), nil
	}
	if e.classifier == nil {
		return domain.SentimentResult{}, domain.NewBackendUnavailableErr("sentiment classifier is not configured")
	}

	if mode == SentimentMode_PerSentence {
		return e.perSentence(ctx, text)
	}

	trip, _, err := e.classifyCalibrated(ctx, text)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	return decideSentiment(trip.Positive, trip.Negative, trip.Neutral, 0), nil
}

func (e SentimentEnsemble) perSentence(ctx context.Context, text string) (domain.SentimentResult, error) {
	var spos, sneg, sneu, mass float64
	for _, sentence := range domain.SplitSentences(domain.NormalizeWhitespace(text)) {
		tokens := countTokens(sentence)
		if tokens < sentimentMinTokens {
			continue
		}
		trip, _, err := e.classifyCalibrated(ctx, sentence)
		if err != nil {
			return domain.SentimentResult{}, err
		}
		w := float64(tokens)
		spos += w * trip.Positive
		sneg += w * trip.Negative
		sneu += w * trip.Neutral
		mass += w
	}
	if mass == 0 {
		return domain.NeutralSentiment(), nil
	}
	return decideSentiment(spos/mass, sneg/mass, sneu/mass, 0), nil
}

// classifyCalibrated turns one classifier call into a softened triplet plus
// the softened decision margin.
func (e SentimentEnsemble) classifyCalibrated(ctx context.Context, text string) (domain.SentimentBreakdown, float64, error) {
	dist, err := e.classifier.Classify(ctx, text)
	if err != nil {
		return domain.SentimentBreakdown{}, 0, err
	}
	trip, margin := calibrateDistribution(dist)
	return trip, margin, nil
}

// AnchorSentiment scores the text against the embedded sentiment anchors:
// salience-weighted per-sentence triplets from centroid cosines, lexical cue
// bumps and a sharpened softmax, with a neutral override on thin margins.
func (e SentimentEnsemble) AnchorSentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	analysis, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	if len(analysis.Sentences) == 0 {
		return domain.NeutralSentiment(), nil
	}

	posCentroid, err := e.anchors.SentimentCentroid(ctx, domain.Sentiment_Positive)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	negCentroid, err := e.anchors.SentimentCentroid(ctx, domain.Sentiment_Negative)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	neuCentroid, err := e.anchors.SentimentCentroid(ctx, domain.Sentiment_Neutral)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	subtypes, err := e.anchors.NegativeSubtypeCentroids(ctx)
	if err != nil {
		return domain.SentimentResult{}, err
	}

	var spos, sneg, sneu float64
	for _, sentence := range analysis.Sentences {
		pos, neg, neu := scoreSentenceAnchors(sentence.Text, sentence.Vector, posCentroid, negCentroid, neuCentroid, subtypes)
		w := sentence.Salience
		spos += w * pos
		sneg += w * neg
		sneu += w * neu
	}

	sum := spos + sneg + sneu
	if sum == 0 {
		sum = 1
	}
	return decideSentiment(spos/sum, sneg/sum, sneu/sum, anchorNeutralTau), nil
}

// BlendedSentiment mixes the classifier and anchor triplets, trusting the
// classifier in proportion to its raw margin.
func (e SentimentEnsemble) BlendedSentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NeutralSentiment(), nil
	}
	if e.classifier == nil {
		return e.AnchorSentiment(ctx, text)
	}

	dist, err := e.classifier.Classify(ctx, text)
	if err != nil {
		e.logger.Printf("WARN sentiment classifier failed, using anchor path: %v", err)
		return e.AnchorSentiment(ctx, text)
	}

	clf, _ := calibrateDistribution(dist)
	anchor, err := e.AnchorSentiment(ctx, text)
	if err != nil {
		return domain.SentimentResult{}, err
	}

	w := ensembleWeight(dist.Margin)
	pos := w*clf.Positive + (1-w)*anchor.Breakdown.Positive
	neg := w*clf.Negative + (1-w)*anchor.Breakdown.Negative
	neu := w*clf.Neutral + (1-w)*anchor.Breakdown.Neutral
	return decideSentiment(pos, neg, neu, 0), nil
}

// calibrateDistribution converts the canonical classifier triplet into a
// softened triplet with a margin-derived neutral band. Only the pos/neg
// balance is used; the backend's own neutral mass is re-derived from the
// softened margin.
func calibrateDistribution(dist domain.SentimentDistribution) (domain.SentimentBreakdown, float64) {
	z := dist.Positive + dist.Negative
	posRaw := 0.5
	if z > 0 {
		posRaw = dist.Positive / z
	}
	posT := sigmoid(logit(posRaw) / sentimentTemperature)
	negT := 1 - posT
	margin := math.Abs(posT-0.5) * 2

	neutral := math.Max(sentimentNeutralMin, math.Pow(1-margin, sentimentNeutralGamma))
	nonNeutral := math.Max(0, 1-neutral)
	pos := nonNeutral * posT
	neg := nonNeutral * negT
	sum := pos + neg + neutral
	if sum == 0 {
		sum = 1
	}
	return domain.SentimentBreakdown{Positive: pos / sum, Negative: neg / sum, Neutral: neutral / sum}, margin
}

var (
	intensityRe = regexp.MustCompile(`(?i)\b(so|really|very)\b`)
	tokenRe     = regexp.MustCompile(`\w+`)
)

// scoreSentenceAnchors converts one sentence vector into a sentiment
// triplet. Negative uses the best-matching subtype centroid so a single
// dominant negative emotion is not averaged away.
func scoreSentenceAnchors(
	text string,
	vec []float64,
	posCentroid, negCentroid, neuCentroid []float64,
	subtypes map[string][]float64,
) (float64, float64, float64) {
	sp := common.Cosine(vec, posCentroid)
	su := common.Cosine(vec, neuCentroid)

	sn := -1.0
	if len(subtypes) > 0 {
		for _, centroid := range subtypes {
			if s := common.Cosine(vec, centroid); s > sn {
				sn = s
			}
		}
	} else {
		sn = common.Cosine(vec, negCentroid)
	}

	posHits := countCues(text, domain.PositiveCues)
	negHits := countCues(text, domain.NegativeCues)
	sp += math.Min(0.06, 0.02*float64(posHits))
	sn += math.Min(0.08, 0.025*float64(negHits))

	if posHits+negHits > 0 {
		su -= 0.015
	}

	if intensityRe.MatchString(text) || strings.Contains(text, "!") {
		switch {
		case negHits > 0 && posHits == 0:
			sn += 0.03
		case sp >= sn && sp >= su:
			sp += 0.02
		case sn >= su:
			sn += 0.02
		default:
			su += 0.02
		}
	}

	// Tiny priors against neutral dominance.
	sp += 0.02
	sn += 0.02

	return common.Softmax3(sp, sn, su, anchorSoftmaxTemp)
}

// decideSentiment ranks the triplet into a result. With tau > 0 a margin
// below tau forces the neutral label.
func decideSentiment(pos, neg, neu, tau float64) domain.SentimentResult {
	sum := pos + neg + neu
	if sum == 0 {
		sum = 1
	}
	pos, neg, neu = pos/sum, neg/sum, neu/sum

	ranked := []struct {
		label domain.SentimentLabel
		v     float64
	}{
		{domain.Sentiment_Positive, pos},
		{domain.Sentiment_Negative, neg},
		{domain.Sentiment_Neutral, neu},
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].v > ranked[b].v })

	label := ranked[0].label
	margin := ranked[0].v - ranked[1].v
	if tau > 0 && margin < tau {
		label = domain.Sentiment_Neutral
	}

	return domain.SentimentResult{
		Label:      label,
		Confidence: common.Clamp01(margin),
		Breakdown: domain.SentimentBreakdown{
			Positive: common.Round2(pos),
			Negative: common.Round2(neg),
			Neutral:  common.Round2(neu),
		},
	}
}

// ensembleWeight maps the classifier's raw margin to its blend weight.
func ensembleWeight(margin float64) float64 {
	switch {
	case margin >= 0.40:
		return 0.80
	case margin >= 0.25:
		return 0.70
	case margin >= 0.15:
		return 0.60
	case margin >= 0.08:
		return 0.50
	default:
		return 0.40
	}
}

func countCues(text string, cues []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			hits++
		}
	}
	return hits
}

func countTokens(text string) int {
	return len(tokenRe.FindAllString(text, -1))
}

func logit(p float64) float64 {
	p = math.Min(1-1e-12, math.Max(1e-12, p))
	return math.Log(p) - math.Log(1-p)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// InitSentimentEnsemble initializes the SentimentEnsemble component. The
// classifier dependency is optional.
type InitSentimentEnsemble struct {
	Analyzer Analyzer     `resolve:""`
	Anchors  *AnchorIndex `resolve:""`
	Logger   *log.Logger  `resolve:""`
}

// Initialize registers the SentimentEnsemble.
func (ise InitSentimentEnsemble) Initialize(ctx context.Context) (context.Context, error) {
	classifier, _ := depend.Resolve[domain.SentimentClassifier]()
	depend.Register(NewSentimentEnsemble(classifier, ise.Analyzer, ise.Anchors, ise.Logger))
	return ctx, nil
}
