package semantics

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nickspeelman/reflect/internal/common"
)

const (
	// SummaryMethod_Extractive marks a one-sentence extractive summary.
	SummaryMethod_Extractive = "extractive"
	// SummaryMethod_ExtractiveMMR marks a two-sentence summary where the
	// second pick came from maximal marginal relevance.
	SummaryMethod_ExtractiveMMR = "extractive+mmr"
	// SummaryMethod_Empty marks the empty-input short circuit.
	SummaryMethod_Empty = "empty"
)

// SummaryOptions tunes the extractive summarizer.
type SummaryOptions struct {
	// MaxChars is the character budget for the final summary.
	MaxChars int
	// AllowTwoSentences enables the MMR second pick.
	AllowTwoSentences bool
	// MMRLambda balances relevance against diversity for the second pick.
	MMRLambda float64
	// PositionBonus favors earlier sentences, decaying linearly to zero by
	// the last sentence.
	PositionBonus float64
}

// DefaultSummaryOptions returns the standard summarizer settings.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		MaxChars:          220,
		AllowTwoSentences: true,
		MMRLambda:         0.75,
		PositionBonus:     0.03,
	}
}

// Summary is the extractive summary for one entry.
type Summary struct {
	Text   string
	Method string
}

// Summarize picks one or two sentences from the analysis. The first pick
// maximizes cosine-to-centroid plus the position bonus; the optional second
// pick maximizes lambda*relevance - (1-lambda)*similarity-to-first. Chosen
// sentences are reordered chronologically and concatenated under the
// character budget.
func Summarize(analysis Analysis, opts SummaryOptions) Summary {
	if len(analysis.Sentences) == 0 {
		return Summary{Text: "", Method: SummaryMethod_Empty}
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultSummaryOptions().MaxChars
	}

	total := len(analysis.Sentences)
	baseScores := make([]float64, total)
	for i, sentence := range analysis.Sentences {
		relevance := common.Cosine(sentence.Vector, analysis.Centroid)
		baseScores[i] = relevance + opts.PositionBonus*(1-float64(i)/float64(total))
	}

	firstIdx := common.ArgMax(baseScores)
	chosen := []int{firstIdx}

	if opts.AllowTwoSentences && total > 1 {
		bestIdx, best := -1, math.Inf(-1)
		for i := range analysis.Sentences {
			if i == firstIdx {
				continue
			}
			similarity := common.Cosine(analysis.Sentences[i].Vector, analysis.Sentences[firstIdx].Vector)
			mmr := opts.MMRLambda*baseScores[i] - (1-opts.MMRLambda)*similarity
			if mmr > best {
				best = mmr
				bestIdx = i
			}
		}
		if bestIdx != -1 {
			chosen = append(chosen, bestIdx)
			sort.Ints(chosen)
		}
	}

	var out string
	for _, idx := range chosen {
		next := strings.TrimSpace(analysis.Sentences[idx].Text)
		if next == "" {
			continue
		}
		candidate := next
		if out != "" {
			candidate = out + " " + next
		}
		if utf8.RuneCountInString(candidate) <= opts.MaxChars {
			out = candidate
		} else {
			break
		}
	}
	if out == "" {
		out = clampToChars(analysis.Sentences[firstIdx].Text, opts.MaxChars)
	}

	method := SummaryMethod_Extractive
	if len(chosen) == 2 {
		method = SummaryMethod_ExtractiveMMR
	}
	return Summary{Text: out, Method: method}
}

var trailingClause = regexp.MustCompile(`[,;:]\s+\S*$`)

// clampToChars truncates text to the rune budget, trimming back to the last
// clause-separating punctuation when that keeps at least 60% of the budget;
// otherwise it hard-truncates. Cutting on rune boundaries keeps the output
// valid UTF-8.
func clampToChars(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	head := string(runes[:maxChars])
	soft := strings.TrimSpace(trailingClause.ReplaceAllString(head, ""))
	if float64(utf8.RuneCountInString(soft)) >= float64(maxChars)*0.6 {
		return soft
	}
	return strings.TrimSpace(head)
}
