package usecases

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// RenameTheme defines the interface for the RenameTheme use case.
type RenameTheme interface {
	Execute(ctx context.Context, id uuid.UUID, label string) error
}

// RenameThemeImpl is the implementation of the RenameTheme use case.
type RenameThemeImpl struct {
	themeRepo domain.ThemeRepository
}

// NewRenameThemeImpl creates a new instance of RenameThemeImpl.
func NewRenameThemeImpl(themeRepo domain.ThemeRepository) RenameThemeImpl {
	return RenameThemeImpl{themeRepo: themeRepo}
}

// Execute sets a new label on one theme.
func (rti RenameThemeImpl) Execute(ctx context.Context, id uuid.UUID, label string) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	label = strings.TrimSpace(label)
	if err := validateRenameThemeInputParams(label); telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	err := rti.themeRepo.RenameTheme(spanCtx, id, label)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	return nil
}

func validateRenameThemeInputParams(label string) error {
	if label == "" {
		return domain.NewValidationErr("label cannot be empty")
	}
	if utf8.RuneCountInString(label) > 64 {
		return domain.NewValidationErr("label cannot exceed 64 characters")
	}
	return nil
}

// InitRenameTheme initializes the RenameTheme use case and registers it in
// the dependency container.
type InitRenameTheme struct {
	ThemeRepo domain.ThemeRepository `resolve:""`
}

// Initialize registers the RenameTheme use case implementation.
func (irt InitRenameTheme) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[RenameTheme](NewRenameThemeImpl(irt.ThemeRepo))
	return ctx, nil
}
