package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// GetEntry defines the interface for the GetEntry use case.
type GetEntry interface {
	Query(ctx context.Context, id uuid.UUID) (domain.JournalEntry, error)
}

// GetEntryImpl is the implementation of the GetEntry use case.
type GetEntryImpl struct {
	entryRepo domain.EntryRepository
}

// NewGetEntryImpl creates a new instance of GetEntryImpl.
func NewGetEntryImpl(entryRepo domain.EntryRepository) GetEntryImpl {
	return GetEntryImpl{entryRepo: entryRepo}
}

// Query retrieves a single journal entry by its ID.
func (gei GetEntryImpl) Query(ctx context.Context, id uuid.UUID) (domain.JournalEntry, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	entry, found, err := gei.entryRepo.GetEntry(spanCtx, id)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.JournalEntry{}, err
	}
	if !found {
		err := domain.NewNotFoundErr("entry not found")
		telemetry.RecordErrorAndStatus(span, err)
		return domain.JournalEntry{}, err
	}

	return entry, nil
}

// InitGetEntry initializes the GetEntry use case and registers it in the
// dependency container.
type InitGetEntry struct {
	EntryRepo domain.EntryRepository `resolve:""`
}

// Initialize registers the GetEntry use case implementation.
func (ige InitGetEntry) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[GetEntry](NewGetEntryImpl(ige.EntryRepo))
	return ctx, nil
}
