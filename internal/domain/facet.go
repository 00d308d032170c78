package domain

// Facet is one of the three fixed semantic facets scored for every entry.
type Facet string

const (
	Facet_Feeling Facet = "feeling"
	Facet_Event   Facet = "event"
	Facet_Intent  Facet = "intent"
)

// Facets lists the facets in their canonical order.
var Facets = []Facet{Facet_Feeling, Facet_Event, Facet_Intent}

// FacetEvidence is one sentence's contribution to a facet score.
type FacetEvidence struct {
	Index  int     `json:"index"`
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// FacetScore is one facet's entry-level result with supporting sentences.
type FacetScore struct {
	Facet    Facet           `json:"facet"`
	Score    float64         `json:"score"`
	Evidence []FacetEvidence `json:"evidence"`
}

// FacetReport aggregates the three facet scores for one entry. Scores are
// comparative: they are max-normalized against each other, so the dominant
// facet scores 1.0 rather than carrying an absolute probability.
type FacetReport struct {
	Facets []FacetScore      `json:"facets"`
	Top    *Facet            `json:"top"`
	Scores map[Facet]float64 `json:"scores"`
}

// EmptyFacetReport is the all-zero report used for empty input.
func EmptyFacetReport() FacetReport {
	report := FacetReport{
		Facets: make([]FacetScore, len(Facets)),
		Scores: map[Facet]float64{},
	}
	for i, facet := range Facets {
		report.Facets[i] = FacetScore{Facet: facet, Score: 0, Evidence: []FacetEvidence{}}
		report.Scores[facet] = 0
	}
	return report
}

// Anchor phrases, lexical cues, and context patterns below are configuration
// data, not tunables: facet scores are only reproducible with these exact
// lists and the scoring constants in the semantics package.

// FacetAnchors holds the short anchor phrases whose embeddings define each
// facet's reference region. Kept tiny on purpose.
var FacetAnchors = map[Facet][]string{
	Facet_Feeling: {
		"I feel", "I'm feeling", "the emotion I'm noticing",
		"I am anxious", "I am hopeful", "I am grateful", "I feel calm", "I feel overwhelmed",
	},
	Facet_Event: {
		"Today I", "I started", "I finished", "I met", "I called", "I decided",
		"It happened", "The meeting ended", "I ran", "I wrote",
	},
	Facet_Intent: {
		"I will", "I plan to", "I'm going to", "next step", "first step",
		"today I'll", "my goal is", "I intend to",
	},
}

// FeelingWords are the lexical cues counted toward the feeling facet.
var FeelingWords = []string{
	"anxious", "anxiety", "hopeful", "grateful", "tired", "energized", "angry",
	"sad", "calm", "excited", "overwhelmed", "nervous", "confident", "peaceful",
	"lonely", "stressed", "worried", "relieved", "proud",
}

// EventVerbs are the lexical cues counted toward the event facet.
var EventVerbs = []string{
	"met", "called", "finished", "started", "planned", "decided", "wrote",
	"emailed", "talked", "visited", "learned", "presented", "cooked", "ran",
	"walked", "published", "shipped", "fixed", "broke", "launched",
}
