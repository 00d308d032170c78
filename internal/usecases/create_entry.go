package usecases

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/semantics"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// snapshotRetryAttempts bounds the optimistic-save loop when two entry
// submissions race on the theme snapshot.
const snapshotRetryAttempts = 3

// UnlabeledThemeChannel carries themes still wearing the default label to
// the background namer.
type UnlabeledThemeChannel chan domain.Theme

// CreateEntry defines the interface for the CreateEntry use case.
type CreateEntry interface {
	Execute(ctx context.Context, prompt, response string) (domain.JournalEntry, error)
}

// CreateEntryImpl is the implementation of the CreateEntry use case. One
// Execute call runs the whole aggregation pipeline: analysis, summary,
// facets, sentiment, theme assignment, then a transactional persist of the
// entry plus the updated theme snapshot.
type CreateEntryImpl struct {
	uow          domain.UnitOfWork
	analyzer     semantics.Analyzer
	anchors      *semantics.AnchorIndex
	themeEngine  semantics.ThemeEngine
	sentiment    semantics.SentimentEnsemble
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
	unlabeledCh  UnlabeledThemeChannel
}

// NewCreateEntryImpl creates a new instance of CreateEntryImpl.
func NewCreateEntryImpl(
	uow domain.UnitOfWork,
	analyzer semantics.Analyzer,
	anchors *semantics.AnchorIndex,
	themeEngine semantics.ThemeEngine,
	sentiment semantics.SentimentEnsemble,
	timeProvider domain.CurrentTimeProvider,
	unlabeledCh UnlabeledThemeChannel,
) CreateEntryImpl {
	return CreateEntryImpl{
		uow:          uow,
		analyzer:     analyzer,
		anchors:      anchors,
		themeEngine:  themeEngine,
		sentiment:    sentiment,
		timeProvider: timeProvider,
		createUUID:   uuid.New,
		unlabeledCh:  unlabeledCh,
	}
}

// Execute processes and persists one journal entry.
func (cei CreateEntryImpl) Execute(ctx context.Context, prompt, response string) (domain.JournalEntry, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	response = strings.TrimSpace(response)
	if err := validateCreateEntryInputParams(response); telemetry.RecordErrorAndStatus(span, err) {
		return domain.JournalEntry{}, err
	}

	analysis, err := cei.analyzer.Analyze(spanCtx, response)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.JournalEntry{}, err
	}
	RecordEmbeddingTokens(spanCtx, analysis.TotalTokens)

	summary := semantics.Summarize(analysis, semantics.DefaultSummaryOptions())

	facets, err := semantics.ScoreFacets(spanCtx, analysis, cei.anchors)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.JournalEntry{}, err
	}

	sentiment, err := cei.sentiment.InferSentiment(spanCtx, response)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.JournalEntry{}, err
	}

	entry := domain.JournalEntry{
		ID:            cei.createUUID(),
		Prompt:        strings.TrimSpace(prompt),
		Response:      response,
		Summary:       summary.Text,
		SummaryMethod: summary.Method,
		Facets:        facets,
		Sentiment:     sentiment,
		Embedding:     analysis.Centroid,
		CreatedAt:     cei.timeProvider.Now(),
	}

	assignment, err := cei.persistWithThemes(spanCtx, &entry, analysis)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.JournalEntry{}, err
	}

	cei.notifyUnlabeled(assignment.Themes)

	RecordEntryProcessed(spanCtx, string(sentiment.Label))
	return entry, nil
}

// persistWithThemes folds the entry into the theme snapshot and stores both
// in one transaction. The snapshot save is compare-and-swap; a conflict
// means another entry landed first, so the fold is retried on the fresh
// snapshot.
func (cei CreateEntryImpl) persistWithThemes(ctx context.Context, entry *domain.JournalEntry, analysis semantics.Analysis) (semantics.ThemeAssignment, error) {
	var assignment semantics.ThemeAssignment

	for attempt := 0; attempt < snapshotRetryAttempts; attempt++ {
		err := cei.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
			snapshot, err := uow.Themes().GetSnapshot(ctx)
			if err != nil {
				return err
			}

			assignment, err = cei.themeEngine.AssignThemes(ctx, analysis, snapshot)
			if err != nil {
				return err
			}
			entry.Tags = assignment.EntryTags

			err = uow.Themes().SaveSnapshot(ctx, domain.ThemeSnapshot{
				Version: snapshot.Version,
				Themes:  assignment.Themes,
			}, snapshot.Version)
			if err != nil {
				return err
			}

			RecordThemesCreated(ctx, len(assignment.Themes)-len(snapshot.Themes))
			return uow.Entries().CreateEntry(ctx, *entry)
		})
		if err == nil {
			return assignment, nil
		}

		var conflict *domain.ConflictErr
		if !errors.As(err, &conflict) || attempt == snapshotRetryAttempts-1 {
			return semantics.ThemeAssignment{}, err
		}
	}

	return assignment, nil
}

// notifyUnlabeled hands default-labeled themes to the namer worker without
// ever blocking the request path.
func (cei CreateEntryImpl) notifyUnlabeled(themes []domain.Theme) {
	if cei.unlabeledCh == nil {
		return
	}
	for _, theme := range themes {
		if theme.Label != "Theme" {
			continue
		}
		select {
		case cei.unlabeledCh <- theme:
		default:
		}
	}
}

func validateCreateEntryInputParams(response string) error {
	if response == "" {
		return domain.NewValidationErr("response cannot be empty")
	}
	if utf8.RuneCountInString(response) > domain.MaxEntryChars {
		return domain.NewValidationErr("response cannot exceed 2000 characters")
	}
	return nil
}

// InitCreateEntry initializes the CreateEntry use case and registers it in
// the dependency container.
type InitCreateEntry struct {
	Uow          domain.UnitOfWork           `resolve:""`
	Analyzer     semantics.Analyzer          `resolve:""`
	Anchors      *semantics.AnchorIndex      `resolve:""`
	ThemeEngine  semantics.ThemeEngine       `resolve:""`
	Sentiment    semantics.SentimentEnsemble `resolve:""`
	TimeProvider domain.CurrentTimeProvider  `resolve:""`
}

// Initialize registers the CreateEntry use case implementation.
func (ice InitCreateEntry) Initialize(ctx context.Context) (context.Context, error) {
	queue, _ := depend.Resolve[UnlabeledThemeChannel]()
	depend.Register[CreateEntry](NewCreateEntryImpl(
		ice.Uow, ice.Analyzer, ice.Anchors, ice.ThemeEngine, ice.Sentiment, ice.TimeProvider, queue,
	))
	return ctx, nil
}

// InitUnlabeledThemeQueue registers the channel that hands default-labeled
// themes to the naming worker.
type InitUnlabeledThemeQueue struct {
	Capacity int `config:"THEME_NAMER_QUEUE_CAPACITY" default:"64"`
}

// Initialize registers the queue in the dependency container.
func (iq InitUnlabeledThemeQueue) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register(make(UnlabeledThemeChannel, iq.Capacity))
	return ctx, nil
}
