package semantics

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
	"go.yaml.in/yaml/v3"
)

//go:embed prompts/theme-label.yml prompts/entry-tags.yml
var labelerPrompts embed.FS

// Labeler wraps the optional generation backend for theme naming and entry
// multi-tags. Every method degrades to an empty result on backend or parse
// failure: generation augments the vector pipeline, it never gates it.
type Labeler struct {
	generator domain.TextGenerator
}

// NewLabeler creates a Labeler. A nil generator is allowed and makes every
// call return the empty result.
func NewLabeler(generator domain.TextGenerator) Labeler {
	return Labeler{generator: generator}
}

// ThemeName is a generated theme label with optional trimmings.
type ThemeName struct {
	Label       string
	Alias       *string
	Description *string
}

var bracedLabelRe = regexp.MustCompile(`(?i)\{\s*theme:\s*([^}]*)\}`)

// LabelTheme asks the generator to name a theme from up to three evidence
// sentences. Returns found=false when generation is unavailable or the
// output cannot be reduced to a usable label.
func (l Labeler) LabelTheme(ctx context.Context, evidence []string) (ThemeName, bool) {
	if l.generator == nil || len(evidence) == 0 {
		return ThemeName{}, false
	}
	if len(evidence) > 3 {
		evidence = evidence[:3]
	}

	prompt, err := renderPrompt("prompts/theme-label.yml", evidenceLines(evidence))
	if err != nil {
		return ThemeName{}, false
	}

	text, err := l.generator.Generate(ctx, prompt, domain.GenerationOptions{
		MaxNewTokens: 12,
		Temperature:  0,
		TopP:         1,
	})
	if err != nil {
		return ThemeName{}, false
	}

	// Preferred format is a braced "{Theme: X}" wrapper; some models emit
	// a JSON object with a "label" key instead.
	if m := bracedLabelRe.FindStringSubmatch(text); len(m) == 2 {
		if label := CleanLabel(m[1]); label != "" {
			return ThemeName{Label: label}, true
		}
	}

	var parsed struct {
		Label       string  `json:"label"`
		Alias       *string `json:"alias"`
		Description *string `json:"description"`
	}
	if DecodeLooseJSON(text, &parsed) {
		if label := CleanLabel(parsed.Label); label != "" {
			return ThemeName{Label: label, Alias: parsed.Alias, Description: parsed.Description}, true
		}
	}

	if label := CleanLabel(text); label != "" {
		return ThemeName{Label: label}, true
	}
	return ThemeName{}, false
}

// TagEntry asks the generator for 1-4 short topic tags from the most salient
// sentences. Returns nil on any failure.
func (l Labeler) TagEntry(ctx context.Context, evidence []string) []string {
	if l.generator == nil || len(evidence) == 0 {
		return nil
	}
	if len(evidence) > 4 {
		evidence = evidence[:4]
	}

	prompt, err := renderPrompt("prompts/entry-tags.yml", evidenceLines(evidence))
	if err != nil {
		return nil
	}

	text, err := l.generator.Generate(ctx, prompt, domain.GenerationOptions{
		MaxNewTokens: 96,
		Temperature:  0,
	})
	if err != nil {
		return nil
	}

	var parsed struct {
		Tags []any `json:"tags"`
	}
	if !DecodeLooseJSON(text, &parsed) {
		return nil
	}
	return SanitizeTags(parsed.Tags)
}

// renderPrompt loads an embedded prompt file and joins its messages into one
// prompt string with the evidence substituted in.
func renderPrompt(name, evidence string) (string, error) {
	file, err := labelerPrompts.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open prompt %s: %w", name, err)
	}
	defer file.Close() //nolint:errcheck

	var messages []struct {
		Role    string `yaml:"role"`
		Content string `yaml:"content"`
	}
	if err := yaml.NewDecoder(file).Decode(&messages); err != nil {
		return "", fmt.Errorf("failed to decode prompt %s: %w", name, err)
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf(msg.Content, evidence)))
	}
	return strings.Join(parts, "\n\n"), nil
}

func evidenceLines(evidence []string) string {
	lines := make([]string, 0, len(evidence))
	for _, s := range evidence {
		escaped := strings.ReplaceAll(s, `"`, `\"`)
		lines = append(lines, fmt.Sprintf(`- "%s"`, escaped))
	}
	return strings.Join(lines, "\n")
}

var (
	fencedStripRe  = regexp.MustCompile("```[\\s\\S]*?```")
	labelCharsRe   = regexp.MustCompile(`[^\p{L}\p{N}'’\- ]`)
	labelSpacesRe  = regexp.MustCompile(`\s+`)
	genericLabels  = map[string]struct{}{"": {}, "Label": {}, "Theme": {}, "Them": {}, "General": {}, "Misc": {}}
	urlOrMentionRe = regexp.MustCompile(`@|https?://`)
	longNumberRe   = regexp.MustCompile(`\b\d{3,}\b`)
)

// CleanLabel normalizes raw generation output into a displayable theme
// label: fences and stray punctuation stripped, Title Case, capped at 32
// characters. Returns "" for empty or generic junk.
func CleanLabel(s string) string {
	t := fencedStripRe.ReplaceAllString(s, "")
	t = strings.Trim(t, `"' `+"\n\t")
	t = labelCharsRe.ReplaceAllString(t, " ")
	t = labelSpacesRe.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)

	words := strings.Fields(t)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	t = strings.Join(words, " ")

	if _, bad := genericLabels[t]; bad || len(t) < 3 {
		return ""
	}
	if runes := []rune(t); len(runes) > 32 {
		t = strings.TrimSpace(string(runes[:32]))
	}
	return t
}

// SanitizeTags filters raw generated tags down to at most four short, safe
// strings: 1-3 words, no handles, URLs or long digit runs.
func SanitizeTags(raw []any) []string {
	out := []string{}
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = labelSpacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
		if s == "" {
			continue
		}
		if urlOrMentionRe.MatchString(s) || longNumberRe.MatchString(s) {
			continue
		}
		if len(strings.Fields(s)) > 3 {
			continue
		}
		out = append(out, s)
		if len(out) >= 4 {
			break
		}
	}
	return out
}

// InitLabeler initializes the Labeler component. The generator dependency is
// optional: when no generation backend is registered the labeler runs in
// disabled mode.
type InitLabeler struct{}

// Initialize registers the Labeler.
func (il InitLabeler) Initialize(ctx context.Context) (context.Context, error) {
	generator, _ := depend.Resolve[domain.TextGenerator]()
	depend.Register(NewLabeler(generator))
	return ctx, nil
}
