package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
	"github.com/pgvector/pgvector-go"
)

var (
	themeFields = []string{
		"id",
		"label",
		"alias",
		"description",
		"centroid",
		"coherence",
		"count",
		"created_at",
		"updated_at",
	}
)

// ThemeRepository implements the domain.ThemeRepository interface using
// PostgreSQL as the storage backend. The theme set is versioned through a
// single snapshot row so concurrent folds are detected as conflicts.
type ThemeRepository struct {
	sb squirrel.StatementBuilderType
}

// NewThemeRepository creates a new instance of ThemeRepository.
func NewThemeRepository(br squirrel.BaseRunner) ThemeRepository {
	return ThemeRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// GetSnapshot loads the current theme snapshot. A fresh store yields version
// zero and no themes.
func (tr ThemeRepository) GetSnapshot(ctx context.Context) (domain.ThemeSnapshot, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	snapshot := domain.ThemeSnapshot{}
	err := tr.sb.
		Select("version").
		From("theme_snapshot").
		QueryRowContext(spanCtx).
		Scan(&snapshot.Version)
	if err == sql.ErrNoRows {
		err = nil
	}
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.ThemeSnapshot{}, err
	}

	rows, err := tr.sb.
		Select(themeFields...).
		From("themes").
		OrderBy("created_at ASC").
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.ThemeSnapshot{}, err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var theme domain.Theme
		var centroid pgvector.Vector
		err := rows.Scan(
			&theme.ID,
			&theme.Label,
			&theme.Alias,
			&theme.Description,
			&centroid,
			&theme.Coherence,
			&theme.Count,
			&theme.CreatedAt,
			&theme.UpdatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return domain.ThemeSnapshot{}, err
		}
		theme.Centroid = toFloat64(centroid.Slice())
		snapshot.Themes = append(snapshot.Themes, theme)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return domain.ThemeSnapshot{}, err
	}

	return snapshot, nil
}

// SaveSnapshot stores the updated theme set if the persisted version still
// equals expectedVersion. The version bump and the theme upserts must run
// inside the caller's transaction to stay atomic.
func (tr ThemeRepository) SaveSnapshot(ctx context.Context, snapshot domain.ThemeSnapshot, expectedVersion int) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	res, err := tr.sb.
		Update("theme_snapshot").
		Set("version", expectedVersion+1).
		Where(squirrel.Eq{"version": expectedVersion}).
		ExecContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	affected, err := res.RowsAffected()
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	if affected == 0 {
		err := domain.NewConflictErr("theme snapshot version changed")
		telemetry.RecordErrorAndStatus(span, err)
		return err
	}

	kept := make([]uuid.UUID, len(snapshot.Themes))
	for i, theme := range snapshot.Themes {
		kept[i] = theme.ID
	}

	// Merged-away themes disappear from the set.
	del := tr.sb.Delete("themes")
	if len(kept) > 0 {
		del = del.Where(squirrel.NotEq{"id": kept})
	}
	if _, err := del.ExecContext(spanCtx); telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	for _, theme := range snapshot.Themes {
		_, err := tr.sb.
			Insert("themes").
			Columns(themeFields...).
			Values(
				theme.ID,
				theme.Label,
				theme.Alias,
				theme.Description,
				pgvector.NewVector(toFloat32Truncated(theme.Centroid)),
				theme.Coherence,
				theme.Count,
				theme.CreatedAt,
				theme.UpdatedAt,
			).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				label = EXCLUDED.label,
				alias = EXCLUDED.alias,
				description = EXCLUDED.description,
				centroid = EXCLUDED.centroid,
				coherence = EXCLUDED.coherence,
				count = EXCLUDED.count,
				updated_at = EXCLUDED.updated_at`).
			ExecContext(spanCtx)
		if telemetry.RecordErrorAndStatus(span, err) {
			return err
		}
	}

	return nil
}

// RenameTheme updates a single theme's label without touching centroids.
func (tr ThemeRepository) RenameTheme(ctx context.Context, id uuid.UUID, label string) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	res, err := tr.sb.
		Update("themes").
		Set("label", label).
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	affected, err := res.RowsAffected()
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	if affected == 0 {
		err := domain.NewNotFoundErr("theme not found")
		telemetry.RecordErrorAndStatus(span, err)
		return err
	}

	return nil
}

// InitThemeRepository is a Symbiont initializer for ThemeRepository.
type InitThemeRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the ThemeRepository in the dependency container.
func (itr InitThemeRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.ThemeRepository](NewThemeRepository(itr.DB))
	return ctx, nil
}
