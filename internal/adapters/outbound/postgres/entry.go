package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	entryFields = []string{
		"id",
		"prompt",
		"response",
		"summary",
		"summary_method",
		"facets",
		"tags",
		"sentiment",
		"embedding",
		"created_at",
	}
)

// EntryRepository implements the domain.EntryRepository interface using
// PostgreSQL as the storage backend. The derived structures (facets, tags,
// sentiment) are stored as jsonb, the entry embedding as a pgvector column.
type EntryRepository struct {
	sb squirrel.StatementBuilderType
}

// NewEntryRepository creates a new instance of EntryRepository.
func NewEntryRepository(br squirrel.BaseRunner) EntryRepository {
	return EntryRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// CreateEntry stores a fully processed journal entry.
func (er EntryRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	facets, err := json.Marshal(entry.Facets)
	if telemetry.RecordErrorAndStatus(span, err) {
		return fmt.Errorf("marshal facets: %w", err)
	}
	tags, err := json.Marshal(entry.Tags)
	if telemetry.RecordErrorAndStatus(span, err) {
		return fmt.Errorf("marshal tags: %w", err)
	}
	sentiment, err := json.Marshal(entry.Sentiment)
	if telemetry.RecordErrorAndStatus(span, err) {
		return fmt.Errorf("marshal sentiment: %w", err)
	}

	_, err = er.sb.
		Insert("entries").
		Columns(entryFields...).
		Values(
			entry.ID,
			entry.Prompt,
			entry.Response,
			entry.Summary,
			entry.SummaryMethod,
			facets,
			tags,
			sentiment,
			pgvector.NewVector(toFloat32Truncated(entry.Embedding)),
			entry.CreatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// GetEntry retrieves an entry by its ID.
func (er EntryRepository) GetEntry(ctx context.Context, id uuid.UUID) (domain.JournalEntry, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	row := er.sb.
		Select(entryFields...).
		From("entries").
		Where(squirrel.Eq{"id": id}).
		QueryRowContext(spanCtx)

	entry, err := scanEntry(row)
	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return domain.JournalEntry{}, false, nil
		}
		return domain.JournalEntry{}, false, err
	}

	return entry, true, nil
}

// ListEntries lists entries newest-first with pagination and an optional
// semantic filter over the stored embeddings.
func (er EntryRepository) ListEntries(ctx context.Context, page int, pageSize int, opts ...domain.ListEntriesOption) ([]domain.JournalEntry, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if pageSize <= 0 {
		return nil, false, domain.NewValidationErr("page_size must be greater than 0")
	}
	if page <= 0 {
		return nil, false, domain.NewValidationErr("page must be greater than 0")
	}

	qry := er.sb.
		Select(entryFields...).
		From("entries").
		Limit(uint64(pageSize + 1)). // fetch one extra to determine if there's more
		Offset(uint64((page - 1) * pageSize))

	params := &domain.ListEntriesParams{}
	for _, opt := range opts {
		opt(params)
	}

	if len(params.Embedding) > 0 {
		queryVec := pgvector.NewVector(toFloat32Truncated(params.Embedding))
		qry = qry.
			Where(squirrel.Expr("(embedding <=> ?) < 0.5", queryVec)).
			OrderByClause(squirrel.Expr("embedding <=> ?", queryVec))
	} else {
		qry = qry.OrderBy("created_at DESC")
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(entries) > pageSize {
		entries = entries[:pageSize]
		return entries, true, nil
	}
	return entries, false, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var facets, tags, sentiment []byte
	var embedding pgvector.Vector

	err := row.Scan(
		&entry.ID,
		&entry.Prompt,
		&entry.Response,
		&entry.Summary,
		&entry.SummaryMethod,
		&facets,
		&tags,
		&sentiment,
		&embedding,
		&entry.CreatedAt,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	if err := json.Unmarshal(facets, &entry.Facets); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("unmarshal facets: %w", err)
	}
	if err := json.Unmarshal(tags, &entry.Tags); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(sentiment, &entry.Sentiment); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("unmarshal sentiment: %w", err)
	}

	entry.Embedding = toFloat64(embedding.Slice())
	return entry, nil
}

// InitEntryRepository is a Symbiont initializer for EntryRepository.
type InitEntryRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the EntryRepository in the dependency container.
func (ier InitEntryRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.EntryRepository](NewEntryRepository(ier.DB))
	return ctx, nil
}

func toFloat32Truncated(input []float64) []float32 {
	f32 := make([]float32, len(input))
	for i, v := range input {
		f32[i] = float32(v)
	}
	if len(f32) > 1536 {
		f32 = f32[:1536]
	}
	return f32
}

func toFloat64(input []float32) []float64 {
	f64 := make([]float64, len(input))
	for i, v := range input {
		f64[i] = float64(v)
	}
	return f64
}
