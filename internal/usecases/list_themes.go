package usecases

import (
	"context"
	"sort"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// ListThemes defines the interface for the ListThemes use case.
type ListThemes interface {
	Query(ctx context.Context) ([]domain.Theme, error)
}

// ListThemesImpl is the implementation of the ListThemes use case.
type ListThemesImpl struct {
	themeRepo domain.ThemeRepository
}

// NewListThemesImpl creates a new instance of ListThemesImpl.
func NewListThemesImpl(themeRepo domain.ThemeRepository) ListThemesImpl {
	return ListThemesImpl{themeRepo: themeRepo}
}

// Query returns all themes in the current snapshot, largest first.
func (lti ListThemesImpl) Query(ctx context.Context) ([]domain.Theme, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	snapshot, err := lti.themeRepo.GetSnapshot(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	themes := snapshot.Themes
	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Count > themes[j].Count
	})

	return themes, nil
}

// InitListThemes initializes the ListThemes use case and registers it in
// the dependency container.
type InitListThemes struct {
	ThemeRepo domain.ThemeRepository `resolve:""`
}

// Initialize registers the ListThemes use case implementation.
func (ilt InitListThemes) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[ListThemes](NewListThemesImpl(ilt.ThemeRepo))
	return ctx, nil
}
