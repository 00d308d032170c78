package usecases

import (
	"context"
	"sort"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// relatedEntryLimit caps how many related entries one lookup returns.
const relatedEntryLimit = 3

// relatedCandidatePageSize is how many semantic neighbors are pulled from
// the repository before the reference entry itself is filtered out.
const relatedCandidatePageSize = 10

// ListRelatedEntries defines the interface for the ListRelatedEntries use case.
type ListRelatedEntries interface {
	Query(ctx context.Context, id uuid.UUID) ([]domain.RelatedEntry, error)
}

// ListRelatedEntriesImpl is the implementation of the ListRelatedEntries
// use case.
type ListRelatedEntriesImpl struct {
	entryRepo domain.EntryRepository
}

// NewListRelatedEntriesImpl creates a new instance of ListRelatedEntriesImpl.
func NewListRelatedEntriesImpl(entryRepo domain.EntryRepository) ListRelatedEntriesImpl {
	return ListRelatedEntriesImpl{entryRepo: entryRepo}
}

// Query finds the entries semantically closest to the given entry, ranked
// by cosine relevance. The reference entry never appears in its own result.
func (lrei ListRelatedEntriesImpl) Query(ctx context.Context, id uuid.UUID) ([]domain.RelatedEntry, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	reference, found, err := lrei.entryRepo.GetEntry(spanCtx, id)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	if !found {
		err := domain.NewNotFoundErr("entry not found")
		telemetry.RecordErrorAndStatus(span, err)
		return nil, err
	}
	if len(reference.Embedding) == 0 {
		return []domain.RelatedEntry{}, nil
	}

	candidates, _, err := lrei.entryRepo.ListEntries(
		spanCtx, 1, relatedCandidatePageSize,
		domain.WithSemanticFilter(reference.Embedding),
	)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	related := make([]domain.RelatedEntry, 0, relatedEntryLimit)
	for _, candidate := range candidates {
		if candidate.ID == reference.ID || len(candidate.Embedding) == 0 {
			continue
		}
		related = append(related, domain.RelatedEntry{
			Entry:     candidate,
			Relevance: common.Round2(common.Cosine(reference.Embedding, candidate.Embedding)),
		})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Relevance > related[j].Relevance
	})
	if len(related) > relatedEntryLimit {
		related = related[:relatedEntryLimit]
	}

	return related, nil
}

// InitListRelatedEntries initializes the ListRelatedEntries use case and
// registers it in the dependency container.
type InitListRelatedEntries struct {
	EntryRepo domain.EntryRepository `resolve:""`
}

// Initialize registers the ListRelatedEntries use case implementation.
func (ilre InitListRelatedEntries) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[ListRelatedEntries](NewListRelatedEntriesImpl(ilre.EntryRepo))
	return ctx, nil
}
