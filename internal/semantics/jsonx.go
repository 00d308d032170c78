package semantics

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Small generation models rarely return clean JSON. DecodeLooseJSON works
// through progressively more forgiving strategies: strict parse, fenced
// code block, first balanced brace block, then a last-ditch repair of the
// glitches these models actually produce (missing commas, "null" keys,
// missing braces, trailing commas).

var (
	fencedJSONRe    = regexp.MustCompile("(?i)```json\\s*([\\s\\S]*?)```")
	fencedAnyRe     = regexp.MustCompile("```\\s*([\\s\\S]*?)```")
	missingCommaRe  = regexp.MustCompile(`(?i)"\s*"\s*([a-z"])`)
	multiSpaceRe    = regexp.MustCompile(`\s{2,}`)
	aliasNullValRe  = regexp.MustCompile(`(?i)("alias":)\s*"null"`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// DecodeLooseJSON parses generation output into out, returning false when no
// strategy yields valid JSON. It never returns partial decodes: out is only
// touched by a successful parse.
func DecodeLooseJSON(raw string, out any) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	if json.Unmarshal([]byte(raw), out) == nil {
		return true
	}

	if block := extractFencedBlock(raw); block != "" {
		if json.Unmarshal([]byte(block), out) == nil {
			return true
		}
	}

	if block := extractBalancedObject(raw); block != "" {
		if json.Unmarshal([]byte(block), out) == nil {
			return true
		}
	}

	if repaired := repairObjectText(raw); repaired != "" {
		if json.Unmarshal([]byte(repaired), out) == nil {
			return true
		}
	}

	return false
}

func extractFencedBlock(s string) string {
	if m := fencedJSONRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAnyRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractBalancedObject returns the first {...} block with balanced braces.
func extractBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// repairObjectText fixes up the common glitches of tiny instruction models.
func repairObjectText(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}

	// Anchor on the first quoted key if the model emitted preamble.
	if i := strings.Index(strings.ToLower(t), `"label"`); i >= 0 {
		t = t[i:]
	}

	t = missingCommaRe.ReplaceAllString(t, `", $1`)
	t = multiSpaceRe.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, `"null":`, `"alias":`)
	t = aliasNullValRe.ReplaceAllString(t, "$1 null")

	if !strings.HasPrefix(t, "{") {
		t = "{" + t
	}
	if !strings.HasSuffix(t, "}") {
		t = t + "}"
	}
	t = trailingCommaRe.ReplaceAllString(t, "$1")

	return t
}
