package semantics

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// Clustering tunables. Thresholds operate on cosine similarity between unit
// vectors; changing them changes which themes exist, so they are fixed.
const (
	themeJoinThreshold  = 0.78 // sentence joins a theme at or above this cosine
	themeMergeThreshold = 0.87 // themes this close collapse into one
	themeEMAAlpha       = 0.2  // recency weight for centroid updates
	themeMaxPerSentence = 3    // nearest themes a sentence may join
	themeAssignBeta     = 10   // softmax sharpening over joined themes

	entryTagLimit = 4    // tags kept per entry
	entryTagFloor = 0.25 // normalized weight below which a tag is dropped

	tagJoinThreshold = 0.86 // generated tag maps onto an existing theme
	tagWeightBonus   = 0.25 // weight bump when a generated tag confirms a theme
	tagNewWeight     = 0.3  // weight of a theme created from a generated tag
)

// ThemeEngine incrementally clusters sentence vectors into persistent
// themes. One call processes one entry: sentences join or seed themes,
// centroids move by EMA, near-duplicate themes merge, and the entry gets a
// small set of weighted tags.
type ThemeEngine struct {
	encoder      domain.SemanticEncoder
	labeler      Labeler
	timeProvider domain.CurrentTimeProvider
	logger       *log.Logger
}

// NewThemeEngine creates a ThemeEngine.
func NewThemeEngine(
	encoder domain.SemanticEncoder,
	labeler Labeler,
	timeProvider domain.CurrentTimeProvider,
	logger *log.Logger,
) ThemeEngine {
	return ThemeEngine{
		encoder:      encoder,
		labeler:      labeler,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ThemeAssignment is the result of folding one entry into the theme set.
type ThemeAssignment struct {
	// EntryTags are the entry's weighted theme memberships, normalized to
	// sum to 1, at most four, each at least the tag floor before any
	// generation-backed bonus.
	EntryTags []domain.EntryTag
	// Themes is the full updated theme set to persist.
	Themes []domain.Theme
	// GeneratedTags are the raw generation-produced tag strings, when the
	// generation backend was available. Informational only.
	GeneratedTags []string
}

type sentenceAssignment struct {
	sentence int
	themeID  uuid.UUID
	weight   float64
}

// AssignThemes folds one analyzed entry into the snapshot's theme set. The
// snapshot is never mutated; the returned assignment carries the updated
// themes. Generation-backed naming and tagging are best effort: their
// failure never fails the call.
func (e ThemeEngine) AssignThemes(ctx context.Context, analysis Analysis, snapshot domain.ThemeSnapshot) (ThemeAssignment, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	if len(analysis.Sentences) == 0 {
		return ThemeAssignment{EntryTags: []domain.EntryTag{}, Themes: snapshot.Clone().Themes}, nil
	}

	now := e.timeProvider.Now()
	themes := snapshot.Clone().Themes
	if themes == nil {
		themes = []domain.Theme{}
	}

	// Join each sentence to up to K themes, or seed a new one.
	assignments := []sentenceAssignment{}
	for i, sentence := range analysis.Sentences {
		type match struct {
			themeID uuid.UUID
			cos     float64
		}
		matches := []match{}
		for _, theme := range themes {
			if cos := common.Cosine(sentence.Vector, theme.Centroid); cos >= themeJoinThreshold {
				matches = append(matches, match{themeID: theme.ID, cos: cos})
			}
		}
		sort.SliceStable(matches, func(a, b int) bool { return matches[a].cos > matches[b].cos })
		if len(matches) > themeMaxPerSentence {
			matches = matches[:themeMaxPerSentence]
		}

		if len(matches) == 0 {
			theme := e.seedTheme(spanCtx, sentence, now)
			themes = append(themes, theme)
			assignments = append(assignments, sentenceAssignment{sentence: i, themeID: theme.ID, weight: 1})
			continue
		}

		scores := make([]float64, len(matches))
		for k, m := range matches {
			scores[k] = m.cos
		}
		weights := common.SoftmaxWeights(scores, themeAssignBeta)
		for k, m := range matches {
			assignments = append(assignments, sentenceAssignment{sentence: i, themeID: m.themeID, weight: weights[k]})
		}
	}

	e.updateCentroids(analysis, themes, assignments, now)

	removed := mergeCloseThemes(themes)
	surviving := themes[:0:0]
	for _, theme := range themes {
		if _, gone := removed[theme.ID]; !gone {
			surviving = append(surviving, theme)
		}
	}
	themes = surviving

	entryTags := buildEntryTags(analysis, themes, assignments, removed)

	generated := e.augmentWithGeneratedTags(spanCtx, analysis, &themes, &entryTags, now)

	return ThemeAssignment{EntryTags: entryTags, Themes: themes, GeneratedTags: generated}, nil
}

// seedTheme creates a theme from a single unmatched sentence, asking the
// generation backend for a name and falling back to the default label.
func (e ThemeEngine) seedTheme(ctx context.Context, sentence domain.SentenceVector, now time.Time) domain.Theme {
	theme := domain.Theme{
		ID:        uuid.New(),
		Label:     "Theme",
		Centroid:  common.NormalizeVector(sentence.Vector),
		Coherence: 1,
		Count:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if named, ok := e.labeler.LabelTheme(ctx, []string{sentence.Text}); ok {
		theme.Label = named.Label
		theme.Alias = named.Alias
		theme.Description = named.Description
	}
	return theme
}

// updateCentroids applies one EMA step per touched theme using the
// salience-and-weight mass of its assigned sentences.
func (e ThemeEngine) updateCentroids(analysis Analysis, themes []domain.Theme, assignments []sentenceAssignment, now time.Time) {
	type accumulator struct {
		sum  []float64
		mass float64
	}
	byTheme := map[uuid.UUID]*accumulator{}
	for _, a := range assignments {
		sentence := analysis.Sentences[a.sentence]
		mass := sentence.Salience * a.weight
		acc, ok := byTheme[a.themeID]
		if !ok {
			acc = &accumulator{sum: make([]float64, len(sentence.Vector))}
			byTheme[a.themeID] = acc
		}
		for d := range sentence.Vector {
			acc.sum[d] += sentence.Vector[d] * mass
		}
		acc.mass += mass
	}

	for i := range themes {
		acc, ok := byTheme[themes[i].ID]
		if !ok || acc.mass <= 0 {
			continue
		}
		delta := make([]float64, len(acc.sum))
		for d := range acc.sum {
			delta[d] = acc.sum[d] / acc.mass
		}
		mixed := common.AddScaled(
			common.ScaleVector(themes[i].Centroid, 1-themeEMAAlpha),
			delta,
			themeEMAAlpha,
		)
		themes[i].Centroid = common.NormalizeVector(mixed)
		themes[i].Count++
		themes[i].UpdatedAt = now
	}
}

// mergeCloseThemes collapses theme pairs whose centroids are at or above the
// merge threshold in a single left-to-right sweep, mixing centroids by count
// and keeping the more specific label. Returns the IDs merged away.
func mergeCloseThemes(themes []domain.Theme) map[uuid.UUID]uuid.UUID {
	removed := map[uuid.UUID]uuid.UUID{}
	for i := 0; i < len(themes); i++ {
		if _, gone := removed[themes[i].ID]; gone {
			continue
		}
		for j := i + 1; j < len(themes); j++ {
			if _, gone := removed[themes[j].ID]; gone {
				continue
			}
			if common.Cosine(themes[i].Centroid, themes[j].Centroid) < themeMergeThreshold {
				continue
			}
			w1, w2 := float64(max1(themes[i].Count)), float64(max1(themes[j].Count))
			mixed := common.AddScaled(
				common.ScaleVector(themes[i].Centroid, w1),
				themes[j].Centroid,
				w2,
			)
			themes[i].Centroid = common.NormalizeVector(mixed)
			themes[i].Label = domain.PreferThemeLabel(themes[i].Label, themes[j].Label)
			themes[i].Count = int(w1 + w2)
			removed[themes[j].ID] = themes[i].ID
		}
	}
	return removed
}

// buildEntryTags aggregates sentence assignment mass per surviving theme,
// normalizes across themes and keeps the top tags above the floor.
func buildEntryTags(analysis Analysis, themes []domain.Theme, assignments []sentenceAssignment, removed map[uuid.UUID]uuid.UUID) []domain.EntryTag {
	weights := map[uuid.UUID]float64{}
	total := 0.0
	for _, a := range assignments {
		if _, gone := removed[a.themeID]; gone {
			continue
		}
		w := analysis.Sentences[a.sentence].Salience * a.weight
		weights[a.themeID] += w
		total += w
	}
	if total == 0 {
		total = 1
	}

	labels := map[uuid.UUID]string{}
	order := map[uuid.UUID]int{}
	for i, theme := range themes {
		labels[theme.ID] = theme.Label
		order[theme.ID] = i
	}

	tags := []domain.EntryTag{}
	for id, w := range weights {
		tags = append(tags, domain.EntryTag{ID: id, Label: labels[id], Weight: w / total})
	}
	sort.SliceStable(tags, func(a, b int) bool {
		if tags[a].Weight != tags[b].Weight {
			return tags[a].Weight > tags[b].Weight
		}
		return order[tags[a].ID] < order[tags[b].ID]
	})

	kept := []domain.EntryTag{}
	for _, tag := range tags {
		if tag.Weight < entryTagFloor {
			continue
		}
		tag.Weight = common.Round2(tag.Weight)
		kept = append(kept, tag)
		if len(kept) >= entryTagLimit {
			break
		}
	}
	return kept
}

// augmentWithGeneratedTags nudges the entry tags with generation-produced
// topic strings: a tag close to an existing theme bumps that theme's weight,
// a novel tag seeds a lightweight theme. Any backend failure abandons the
// augmentation and leaves the vector-derived tags untouched.
func (e ThemeEngine) augmentWithGeneratedTags(ctx context.Context, analysis Analysis, themes *[]domain.Theme, entryTags *[]domain.EntryTag, now time.Time) []string {
	evidence := topEvidence(analysis.Sentences, 3)
	generated := e.labeler.TagEntry(ctx, evidence)
	if len(generated) == 0 {
		return nil
	}

	for _, tag := range generated {
		embedded, err := e.encoder.VectorizeText(ctx, tag)
		if err != nil {
			e.logger.Printf("WARN tag embedding failed, skipping augmentation: %v", err)
			break
		}
		tagVec := embedded.Vector

		bestIdx, bestCos := -1, -1.0
		for i, theme := range *themes {
			if cos := common.Cosine(tagVec, theme.Centroid); cos > bestCos {
				bestIdx, bestCos = i, cos
			}
		}

		if bestIdx >= 0 && bestCos >= tagJoinThreshold {
			id := (*themes)[bestIdx].ID
			bumped := false
			for i := range *entryTags {
				if (*entryTags)[i].ID == id {
					(*entryTags)[i].Weight = common.Round2(minF((*entryTags)[i].Weight+tagWeightBonus, 1))
					bumped = true
					break
				}
			}
			if !bumped {
				*entryTags = append(*entryTags, domain.EntryTag{ID: id, Label: (*themes)[bestIdx].Label, Weight: tagWeightBonus})
			}
			continue
		}

		theme := domain.Theme{
			ID:        uuid.New(),
			Label:     tag,
			Centroid:  common.NormalizeVector(tagVec),
			Coherence: 1,
			Count:     1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if named, ok := e.labeler.LabelTheme(ctx, evidence); ok {
			theme.Label = named.Label
			theme.Alias = named.Alias
			theme.Description = named.Description
		}
		*themes = append(*themes, theme)
		*entryTags = append(*entryTags, domain.EntryTag{ID: theme.ID, Label: theme.Label, Weight: tagNewWeight})
	}

	renormalizeTags(entryTags)
	return generated
}

// renormalizeTags rescales tag weights to sum to 1 and re-trims to the
// entry tag limit after augmentation shifted the balance.
func renormalizeTags(entryTags *[]domain.EntryTag) {
	sum := 0.0
	for _, tag := range *entryTags {
		sum += tag.Weight
	}
	if sum == 0 {
		sum = 1
	}
	for i := range *entryTags {
		(*entryTags)[i].Weight = common.Round2((*entryTags)[i].Weight / sum)
	}
	sort.SliceStable(*entryTags, func(a, b int) bool { return (*entryTags)[a].Weight > (*entryTags)[b].Weight })
	if len(*entryTags) > entryTagLimit {
		*entryTags = (*entryTags)[:entryTagLimit]
	}
}

// topEvidence returns the n most salient sentences in chronological order.
func topEvidence(sentences []domain.SentenceVector, n int) []string {
	ranked := make([]int, len(sentences))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return sentences[ranked[a]].Salience > sentences[ranked[b]].Salience
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	sort.Ints(ranked)

	out := make([]string, 0, len(ranked))
	for _, i := range ranked {
		out = append(out, sentences[i].Text)
	}
	return out
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// InitThemeEngine initializes the ThemeEngine component.
type InitThemeEngine struct {
	Encoder      domain.SemanticEncoder     `resolve:""`
	Labeler      Labeler                    `resolve:""`
	TimeProvider domain.CurrentTimeProvider `resolve:""`
	Logger       *log.Logger                `resolve:""`
}

// Initialize registers the ThemeEngine.
func (ite InitThemeEngine) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register(NewThemeEngine(ite.Encoder, ite.Labeler, ite.TimeProvider, ite.Logger))
	return ctx, nil
}
