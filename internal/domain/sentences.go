package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// SentenceVector is one segmented sentence with its embedding and its
// salience (normalized similarity to the entry centroid). Salience is a
// relative ranking recomputed per entry, never persisted on its own.
type SentenceVector struct {
	Index    int
	Text     string
	Vector   []float64
	Salience float64
}

var collapseWhitespace = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses all whitespace runs to single spaces and
// trims the ends.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(collapseWhitespace.ReplaceAllString(text, " "))
}

// SplitSentences splits text into trimmed sentence strings. A boundary is
// sentence-ending punctuation followed by whitespace and an upper-case or
// quote/paren-opening character. Text with no boundary comes back as a
// single sentence; empty text yields nothing.
func SplitSentences(text string) []string {
	cleaned := NormalizeWhitespace(text)
	if cleaned == "" {
		return nil
	}

	runes := []rune(cleaned)
	var sentences []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if !isSentenceEnd(runes[i]) || runes[i+1] != ' ' {
			continue
		}
		if i+2 >= len(runes) || !opensSentence(runes[i+2]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 2
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	if len(sentences) == 0 {
		return []string{cleaned}
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

func opensSentence(r rune) bool {
	switch r {
	case '(', '“', '"', '\'':
		return true
	}
	return unicode.IsUpper(r)
}
