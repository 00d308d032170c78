package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/nickspeelman/reflect/internal/domain"
)

func TestGetEntryImpl_Query(t *testing.T) {
	entryID := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	stored := domain.JournalEntry{ID: entryID, Response: "A quiet day."}
	repoErr := errors.New("connection reset")

	tests := map[string]struct {
		getFn         func(ctx context.Context, id uuid.UUID) (domain.JournalEntry, bool, error)
		expectedEntry domain.JournalEntry
		expectedErr   error
	}{
		"found": {
			getFn: func(_ context.Context, id uuid.UUID) (domain.JournalEntry, bool, error) {
				assert.Equal(t, entryID, id)
				return stored, true, nil
			},
			expectedEntry: stored,
		},
		"not found": {
			getFn: func(_ context.Context, _ uuid.UUID) (domain.JournalEntry, bool, error) {
				return domain.JournalEntry{}, false, nil
			},
			expectedErr: domain.NewNotFoundErr("entry not found"),
		},
		"repository error": {
			getFn: func(_ context.Context, _ uuid.UUID) (domain.JournalEntry, bool, error) {
				return domain.JournalEntry{}, false, repoErr
			},
			expectedErr: repoErr,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			impl := NewGetEntryImpl(&fakeEntryRepo{getFn: tc.getFn})

			entry, err := impl.Query(context.Background(), entryID)
			assert.Equal(t, tc.expectedErr, err)
			assert.Equal(t, tc.expectedEntry, entry)
		})
	}
}
