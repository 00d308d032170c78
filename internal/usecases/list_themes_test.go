package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/nickspeelman/reflect/internal/domain"
)

func TestListThemesImpl_Query(t *testing.T) {
	small := domain.Theme{ID: uuid.New(), Label: "Piano Practice", Count: 2}
	large := domain.Theme{ID: uuid.New(), Label: "Work Deadlines", Count: 9}

	repo := &fakeThemeRepo{
		getSnapshotFn: func(_ context.Context) (domain.ThemeSnapshot, error) {
			return domain.ThemeSnapshot{Version: 3, Themes: []domain.Theme{small, large}}, nil
		},
	}

	impl := NewListThemesImpl(repo)

	themes, err := impl.Query(context.Background())
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, large.ID, themes[0].ID)
	assert.Equal(t, small.ID, themes[1].ID)
}

func TestListThemesImpl_Query_RepositoryError(t *testing.T) {
	repoErr := errors.New("connection reset")
	repo := &fakeThemeRepo{
		getSnapshotFn: func(_ context.Context) (domain.ThemeSnapshot, error) {
			return domain.ThemeSnapshot{}, repoErr
		},
	}

	impl := NewListThemesImpl(repo)

	_, err := impl.Query(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
