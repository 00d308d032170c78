package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxEntryChars caps how much raw text one journal entry may carry.
const MaxEntryChars = 2000

// JournalEntry is one processed journal entry: the raw response text plus
// everything the semantic pipeline derived from it.
type JournalEntry struct {
	ID            uuid.UUID
	Prompt        string
	Response      string
	Summary       string
	SummaryMethod string
	Facets        FacetReport
	Tags          []EntryTag
	Sentiment     SentimentResult
	Embedding     []float64
	CreatedAt     time.Time
}

// RelatedEntry pairs a past entry with its relevance to a reference entry.
type RelatedEntry struct {
	Entry     JournalEntry
	Relevance float64
}

// ListEntriesParams carries the optional filters for listing entries.
type ListEntriesParams struct {
	Embedding []float64
}

// ListEntriesOption mutates ListEntriesParams.
type ListEntriesOption func(*ListEntriesParams)

// WithSemanticFilter restricts the listing to entries whose stored embedding
// is close to the given query vector.
func WithSemanticFilter(embedding []float64) ListEntriesOption {
	return func(p *ListEntriesParams) {
		p.Embedding = embedding
	}
}

// EntryRepository persists journal entries.
type EntryRepository interface {
	// CreateEntry stores a fully processed entry.
	CreateEntry(ctx context.Context, entry JournalEntry) error
	// GetEntry fetches one entry by id; found=false when it does not exist.
	GetEntry(ctx context.Context, id uuid.UUID) (JournalEntry, bool, error)
	// ListEntries lists entries newest-first with pagination and optional filters.
	ListEntries(ctx context.Context, page, pageSize int, opts ...ListEntriesOption) ([]JournalEntry, bool, error)
}
