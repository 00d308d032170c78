package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// ListEntriesParams holds the parameters for listing journal entries.
type ListEntriesParams struct {
	Query *string
}

// ListEntriesOptions defines a function type for specifying options when
// listing entries.
type ListEntriesOptions func(*ListEntriesParams)

// WithSearchQuery creates a ListEntriesOptions to filter entries by a
// semantic search query.
func WithSearchQuery(query string) ListEntriesOptions {
	return func(params *ListEntriesParams) {
		params.Query = &query
	}
}

// ListEntries defines the interface for the ListEntries use case.
type ListEntries interface {
	Query(ctx context.Context, page int, pageSize int, opts ...ListEntriesOptions) ([]domain.JournalEntry, bool, error)
}

// ListEntriesImpl is the implementation of the ListEntries use case.
type ListEntriesImpl struct {
	entryRepo domain.EntryRepository
	encoder   domain.SemanticEncoder
}

// NewListEntriesImpl creates a new instance of ListEntriesImpl.
func NewListEntriesImpl(entryRepo domain.EntryRepository, encoder domain.SemanticEncoder) ListEntriesImpl {
	return ListEntriesImpl{
		entryRepo: entryRepo,
		encoder:   encoder,
	}
}

// Query retrieves a list of journal entries with pagination support. A
// search query is embedded and turned into a semantic filter.
func (lei ListEntriesImpl) Query(ctx context.Context, page int, pageSize int, opts ...ListEntriesOptions) ([]domain.JournalEntry, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	params := ListEntriesParams{}
	for _, opt := range opts {
		opt(&params)
	}

	var queryOpts []domain.ListEntriesOption
	if params.Query != nil {
		embedding, err := lei.encoder.VectorizeQuery(spanCtx, *params.Query)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}

		RecordEmbeddingTokens(spanCtx, embedding.TotalTokens)

		queryOpts = append(queryOpts, domain.WithSemanticFilter(embedding.Vector))
	}

	entries, hasMore, err := lei.entryRepo.ListEntries(spanCtx, page, pageSize, queryOpts...)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	return entries, hasMore, nil
}

// InitListEntries initializes the ListEntries use case and registers it in
// the dependency container.
type InitListEntries struct {
	EntryRepo domain.EntryRepository `resolve:""`
	Encoder   domain.SemanticEncoder `resolve:""`
}

// Initialize registers the ListEntries use case implementation.
func (ile InitListEntries) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[ListEntries](NewListEntriesImpl(ile.EntryRepo, ile.Encoder))
	return ctx, nil
}
