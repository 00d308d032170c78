package domain

import "time"

// journalPrompts is the fixed rotation of reflection prompts.
var journalPrompts = []string{
	"What's on your mind right now?",
	"What have you been carrying lately?",
	"What feels unfinished or unresolved?",
	"What are you avoiding?",
	"What would you say if no one was listening?",
	"What feels heavy?",
	"What feels true today?",
}

// PromptOfTheDay returns the reflection prompt for the given moment. The
// rotation is keyed on day-of-year so every caller sees the same prompt on
// the same day.
func PromptOfTheDay(now time.Time) string {
	return journalPrompts[now.YearDay()%len(journalPrompts)]
}
