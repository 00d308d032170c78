package domain

// SentimentLabel is the final three-way sentiment decision.
type SentimentLabel string

const (
	Sentiment_Positive SentimentLabel = "positive"
	Sentiment_Negative SentimentLabel = "negative"
	Sentiment_Neutral  SentimentLabel = "neutral"
)

// SentimentBreakdown is a probability triplet over the three classes.
// The components always sum to 1.
type SentimentBreakdown struct {
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neutral"`
}

// SentimentResult is the calibrated sentiment decision for one text.
// Confidence is the clamped margin between the top two classes.
type SentimentResult struct {
	Label      SentimentLabel     `json:"label"`
	Confidence float64            `json:"confidence"`
	Breakdown  SentimentBreakdown `json:"breakdown"`
}

// NeutralSentiment is the short-circuit result for empty input.
func NeutralSentiment() SentimentResult {
	return SentimentResult{
		Label:      Sentiment_Neutral,
		Confidence: 0,
		Breakdown:  SentimentBreakdown{Positive: 0, Negative: 0, Neutral: 1},
	}
}

// SentimentDistribution is the canonical classifier output after the
// model-specific label scheme has been normalized away: a triplet plus the
// margin between its top two classes. Adapters own the mapping; nothing
// downstream branches on backend identity.
type SentimentDistribution struct {
	Positive float64
	Negative float64
	Neutral  float64
	Margin   float64
}

// Sentiment anchor phrases below are configuration data in the same sense as
// the facet anchors: the calibrated scores depend on these exact lists.

// SentimentAnchors defines the positive/negative/neutral reference phrases.
var SentimentAnchors = map[SentimentLabel][]string{
	Sentiment_Positive: {
		"I feel grateful",
		"I'm proud of myself",
		"I felt calm",
		"I feel hopeful",
		"I'm confident today",
		"I feel content",
		"I'm excited inside",
		"I felt energized",
	},
	Sentiment_Negative: {
		"I feel anxious",
		"I'm overwhelmed",
		"I felt tired",
		"I feel angry",
		"I'm disappointed",
		"I feel worried",
		"I'm frustrated",
		"I felt discouraged",
	},
	Sentiment_Neutral: {
		"I noted my schedule",
		"I updated tasks",
		"I reviewed the list",
		"I wrote some notes",
		"I logged the entry",
		"I recorded details",
		"I organized the files",
		"I tracked the steps",
	},
}

// NegativeSubtypes splits the negative class into emotion families. Scoring
// takes the best-matching subtype centroid so one dominant negative emotion
// is not diluted by averaging with unrelated ones.
var NegativeSubtypes = map[string][]string{
	"anxiety":   {"I feel anxious", "I feel worried", "I'm nervous"},
	"overwhelm": {"I'm overwhelmed", "I feel stressed", "Too much at once"},
	"fatigue":   {"I felt tired", "I'm exhausted", "I feel drained"},
	"anger":     {"I feel angry", "I'm frustrated", "I'm irritated"},
	"sadness":   {"I'm disappointed", "I felt discouraged", "I feel sad"},
	"shame":     {"I feel ashamed", "I feel guilty", "I regret this"},
}

// NegativeCues and PositiveCues are the deterministic lexical nudges applied
// on top of the anchor cosines.
var NegativeCues = []string{
	"anxious", "worried", "overwhelmed", "tired", "angry", "upset",
	"frustrated", "discouraged", "sad", "lonely", "stressed", "disappointed",
	"afraid", "ashamed", "guilty", "regret",
}

var PositiveCues = []string{
	"grateful", "calm", "hopeful", "confident", "content", "excited",
	"energized", "relieved", "proud", "peaceful", "happy", "joyful",
}
