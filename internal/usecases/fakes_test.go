package usecases

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nickspeelman/reflect/internal/domain"
)

type fakeEntryRepo struct {
	createFn func(ctx context.Context, entry domain.JournalEntry) error
	getFn    func(ctx context.Context, id uuid.UUID) (domain.JournalEntry, bool, error)
	listFn   func(ctx context.Context, page, pageSize int, opts ...domain.ListEntriesOption) ([]domain.JournalEntry, bool, error)
}

func (f *fakeEntryRepo) CreateEntry(ctx context.Context, entry domain.JournalEntry) error {
	return f.createFn(ctx, entry)
}

func (f *fakeEntryRepo) GetEntry(ctx context.Context, id uuid.UUID) (domain.JournalEntry, bool, error) {
	return f.getFn(ctx, id)
}

func (f *fakeEntryRepo) ListEntries(ctx context.Context, page, pageSize int, opts ...domain.ListEntriesOption) ([]domain.JournalEntry, bool, error) {
	return f.listFn(ctx, page, pageSize, opts...)
}

type fakeThemeRepo struct {
	getSnapshotFn func(ctx context.Context) (domain.ThemeSnapshot, error)
	saveFn        func(ctx context.Context, snapshot domain.ThemeSnapshot, expectedVersion int) error
	renameFn      func(ctx context.Context, id uuid.UUID, label string) error
}

func (f *fakeThemeRepo) GetSnapshot(ctx context.Context) (domain.ThemeSnapshot, error) {
	return f.getSnapshotFn(ctx)
}

func (f *fakeThemeRepo) SaveSnapshot(ctx context.Context, snapshot domain.ThemeSnapshot, expectedVersion int) error {
	return f.saveFn(ctx, snapshot, expectedVersion)
}

func (f *fakeThemeRepo) RenameTheme(ctx context.Context, id uuid.UUID, label string) error {
	return f.renameFn(ctx, id, label)
}

// fakeUow runs the transactional closure against itself.
type fakeUow struct {
	entries domain.EntryRepository
	themes  domain.ThemeRepository
}

func (f *fakeUow) Execute(ctx context.Context, fn func(uow domain.UnitOfWork) error) error {
	return fn(f)
}

func (f *fakeUow) Entries() domain.EntryRepository { return f.entries }
func (f *fakeUow) Themes() domain.ThemeRepository  { return f.themes }

type fakeEncoder struct {
	vectorizeText  func(ctx context.Context, text string) (domain.EmbeddingVector, error)
	vectorizeQuery func(ctx context.Context, query string) (domain.EmbeddingVector, error)
}

func (f *fakeEncoder) VectorizeText(ctx context.Context, text string) (domain.EmbeddingVector, error) {
	return f.vectorizeText(ctx, text)
}

func (f *fakeEncoder) VectorizeQuery(ctx context.Context, query string) (domain.EmbeddingVector, error) {
	return f.vectorizeQuery(ctx, query)
}

type fakeClassifier struct {
	classifyFn func(ctx context.Context, text string) (domain.SentimentDistribution, error)
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (domain.SentimentDistribution, error) {
	return f.classifyFn(ctx, text)
}

type stubTimeProvider struct {
	now time.Time
}

func (s stubTimeProvider) Now() time.Time { return s.now }

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// constantEncoder embeds every text to the same unit vector, which is
// enough for pipeline wiring tests that do not assert on geometry.
func constantEncoder(vec []float64) *fakeEncoder {
	return &fakeEncoder{
		vectorizeText: func(_ context.Context, _ string) (domain.EmbeddingVector, error) {
			return domain.EmbeddingVector{Vector: vec, TotalTokens: 4}, nil
		},
		vectorizeQuery: func(_ context.Context, _ string) (domain.EmbeddingVector, error) {
			return domain.EmbeddingVector{Vector: vec, TotalTokens: 4}, nil
		},
	}
}
