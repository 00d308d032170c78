package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/nickspeelman/reflect/internal/domain"
)

// ErrorCode classifies API errors for clients.
type ErrorCode string

const (
	BADREQUEST    ErrorCode = "BAD_REQUEST"
	NOTFOUND      ErrorCode = "NOT_FOUND"
	CONFLICT      ErrorCode = "CONFLICT"
	UNAVAILABLE   ErrorCode = "UNAVAILABLE"
	INTERNALERROR ErrorCode = "INTERNAL_ERROR"
)

// Error is the error payload returned by every failing endpoint.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResp wraps an Error in the response envelope.
type ErrorResp struct {
	Error Error `json:"error"`
}

// CreateEntryRequest is the body for POST /entries.
type CreateEntryRequest struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// Entry is the REST representation of a journal entry. The stored embedding
// is internal and never leaves the API.
type Entry struct {
	Id            uuid.UUID              `json:"id"`
	Prompt        string                 `json:"prompt"`
	Response      string                 `json:"response"`
	Summary       string                 `json:"summary"`
	SummaryMethod string                 `json:"summary_method"`
	Facets        domain.FacetReport     `json:"facets"`
	Tags          []domain.EntryTag      `json:"tags"`
	Sentiment     domain.SentimentResult `json:"sentiment"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ListEntriesResp is the paginated response for GET /entries.
type ListEntriesResp struct {
	Items        []Entry `json:"items"`
	Page         int     `json:"page"`
	NextPage     *int    `json:"next_page,omitempty"`
	PreviousPage *int    `json:"previous_page,omitempty"`
}

// RelatedEntry pairs an entry with its relevance to the reference entry.
type RelatedEntry struct {
	Entry     Entry   `json:"entry"`
	Relevance float64 `json:"relevance"`
}

// ListRelatedEntriesResp is the response for GET /entries/{entryId}/related.
type ListRelatedEntriesResp struct {
	Items []RelatedEntry `json:"items"`
}

// Theme is the REST representation of a theme. The centroid vector is
// internal and never leaves the API.
type Theme struct {
	Id          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	Alias       *string   `json:"alias,omitempty"`
	Description *string   `json:"description,omitempty"`
	Coherence   float64   `json:"coherence"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListThemesResp is the response for GET /themes.
type ListThemesResp struct {
	Items []Theme `json:"items"`
}

// RenameThemeRequest is the body for PATCH /themes/{themeId}.
type RenameThemeRequest struct {
	Label string `json:"label"`
}

// InferSentimentRequest is the body for POST /sentiment.
type InferSentimentRequest struct {
	Text string `json:"text"`
	Path string `json:"path,omitempty"`
}

// DailyPromptResp is the response for GET /prompts/today.
type DailyPromptResp struct {
	Prompt string `json:"prompt"`
}
