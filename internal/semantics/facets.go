package semantics

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
)

// Facet scoring constants. The reported scores are only reproducible with
// these exact weights and the anchor/cue lists in the domain package.
const (
	facetAnchorWeight  = 0.35 // alpha: max anchor cosine
	facetLexicalWeight = 0.15 // beta: soft-capped cue hits
	facetContextWeight = 0.5  // gamma: regex-gated context bonus
)

var (
	intentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(i (will|plan to|intend to|am going to))\b`),
		regexp.MustCompile(`(?i)\b(next|first) step\b`),
		regexp.MustCompile(`(?i)\bgoal\b`),
		regexp.MustCompile(`(?i)\btomorrow\b`),
		regexp.MustCompile(`(?i)\btoday i('|’)ll\b`),
	}

	pastTenseHint = regexp.MustCompile(`\b\w+ed\b`)

	intentFutureCue  = regexp.MustCompile(`(?i)\b(next week|tomorrow|later today|soon)\b`)
	eventTemporalCue = regexp.MustCompile(`(?i)\b(today|yesterday|this morning|this afternoon)\b`)
	// Emotional contrast often shows up with conjunctions.
	feelingContrastCue = regexp.MustCompile(`(?i)(?:but|however|still)\b`)
)

// ScoreFacets computes per-sentence facet strengths and aggregates them into
// an entry-level report. Sentence strength is
// clamp01(alpha*maxAnchorCos + beta*lexical + gamma*context); entry scores
// are salience-weighted sums, max-normalized across the three facets so the
// dominant facet reports 1.0.
func ScoreFacets(ctx context.Context, analysis Analysis, anchors *AnchorIndex) (domain.FacetReport, error) {
	if len(analysis.Sentences) == 0 {
		return domain.EmptyFacetReport(), nil
	}

	anchorVectors := map[domain.Facet][][]float64{}
	for _, facet := range domain.Facets {
		vectors, err := anchors.FacetAnchors(ctx, facet)
		if err != nil {
			return domain.FacetReport{}, err
		}
		anchorVectors[facet] = vectors
	}

	aggregate := map[domain.Facet]float64{}
	contributions := map[domain.Facet][]domain.FacetEvidence{}

	for _, sentence := range analysis.Sentences {
		for _, facet := range domain.Facets {
			var maxCos float64
			for _, anchor := range anchorVectors[facet] {
				if c := common.Cosine(sentence.Vector, anchor); c > maxCos {
					maxCos = c
				}
			}

			strength := common.Clamp01(
				facetAnchorWeight*maxCos +
					facetLexicalWeight*lexicalScore(facet, sentence.Text) +
					facetContextWeight*contextBonus(facet, sentence.Text),
			)

			weight := sentence.Salience * strength
			aggregate[facet] += weight
			if weight > 0 {
				contributions[facet] = append(contributions[facet], domain.FacetEvidence{
					Index:  sentence.Index,
					Text:   sentence.Text,
					Weight: weight,
				})
			}
		}
	}

	maxScore := 1e-6
	for _, facet := range domain.Facets {
		if aggregate[facet] > maxScore {
			maxScore = aggregate[facet]
		}
	}

	report := domain.FacetReport{
		Facets: make([]domain.FacetScore, len(domain.Facets)),
		Scores: map[domain.Facet]float64{},
	}
	for i, facet := range domain.Facets {
		normalized := aggregate[facet] / maxScore
		report.Scores[facet] = normalized

		evidence := contributions[facet]
		sort.SliceStable(evidence, func(a, b int) bool {
			return evidence[a].Weight > evidence[b].Weight
		})
		if len(evidence) > 2 {
			evidence = evidence[:2]
		}
		if evidence == nil {
			evidence = []domain.FacetEvidence{}
		}

		report.Facets[i] = domain.FacetScore{
			Facet:    facet,
			Score:    common.Round2(normalized),
			Evidence: evidence,
		}
	}

	top := domain.Facets[0]
	for _, facet := range domain.Facets[1:] {
		if report.Scores[facet] > report.Scores[top] {
			top = facet
		}
	}
	report.Top = &top

	return report, nil
}

// lexicalScore is a soft-capped hit-count ratio over the facet's cue list.
func lexicalScore(facet domain.Facet, sentence string) float64 {
	switch facet {
	case domain.Facet_Feeling:
		lower := strings.ToLower(sentence)
		hits := 0
		for _, word := range domain.FeelingWords {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		return min1(float64(hits) / 3)

	case domain.Facet_Event:
		lower := strings.ToLower(sentence)
		hits := 0
		for _, verb := range domain.EventVerbs {
			if strings.Contains(lower, verb) {
				hits++
			}
		}
		extra := 0.0
		if strings.Contains(sentence, "!") || pastTenseHint.MatchString(lower) {
			extra = 0.2
		}
		return min1(float64(hits)/3 + extra)

	case domain.Facet_Intent:
		hits := 0
		for _, pattern := range intentPatterns {
			if pattern.MatchString(sentence) {
				hits++
			}
		}
		return min1(float64(hits) / 2)
	}
	return 0
}

// contextBonus is a fixed additive constant gated by a facet-specific regex.
func contextBonus(facet domain.Facet, sentence string) float64 {
	switch facet {
	case domain.Facet_Intent:
		if intentFutureCue.MatchString(sentence) {
			return 0.4
		}
	case domain.Facet_Event:
		if eventTemporalCue.MatchString(sentence) {
			return 0.3
		}
	case domain.Facet_Feeling:
		if feelingContrastCue.MatchString(sentence) {
			return 0.2
		}
	}
	return 0
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
