package workers

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/semantics"
	"github.com/nickspeelman/reflect/internal/usecases"
)

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	output string
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ domain.GenerationOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.output, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEntryLister struct {
	entries []domain.JournalEntry
}

func (f fakeEntryLister) CreateEntry(context.Context, domain.JournalEntry) error {
	return nil
}

func (f fakeEntryLister) GetEntry(context.Context, uuid.UUID) (domain.JournalEntry, bool, error) {
	return domain.JournalEntry{}, false, nil
}

func (f fakeEntryLister) ListEntries(context.Context, int, int, ...domain.ListEntriesOption) ([]domain.JournalEntry, bool, error) {
	return f.entries, false, nil
}

type renameRecorder struct {
	mu    sync.Mutex
	calls map[uuid.UUID][]string
}

func newRenameRecorder() *renameRecorder {
	return &renameRecorder{calls: map[uuid.UUID][]string{}}
}

func (r *renameRecorder) Execute(_ context.Context, id uuid.UUID, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[id] = append(r.calls[id], label)
	return nil
}

func (r *renameRecorder) labelsFor(id uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls[id]...)
}

// run starts the runnable and returns a cancel function and done channel.
func run(t *testing.T, ctx context.Context, namer ThemeNamer) (context.CancelFunc, chan struct{}) {
	t.Helper()

	runCtx, cancel := context.WithCancel(ctx)
	doneChan := make(chan struct{}, 1)

	go func() {
		err := namer.Run(runCtx)
		assert.NoError(t, err)
		doneChan <- struct{}{}
	}()

	return cancel, doneChan
}

// waitRunnableStop waits until the runnable goroutine exits.
func waitRunnableStop(t *testing.T, doneChan chan struct{}) {
	t.Helper()

	select {
	case <-doneChan:
	case <-time.After(1 * time.Second):
		t.Fatal("runnable did not shut down in time")
	}
}

// waitForBatchSignals waits for the expected number of batch processing signals or timeout.
func waitForBatchSignals(t *testing.T, signalChan chan struct{}, expectedBatches int, timeout time.Duration) {
	t.Helper()

	batchesProcessed := 0
	for batchesProcessed < expectedBatches {
		select {
		case <-signalChan:
			batchesProcessed++
		case <-time.After(timeout):
			t.Fatalf("timeout waiting for batch processing; got %d batches, expected %d", batchesProcessed, expectedBatches)
		}
	}
}

func TestThemeNamer_NamesDefaultLabeledTheme(t *testing.T) {
	themeID := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	theme := domain.Theme{ID: themeID, Label: "Theme"}
	taggedEntry := domain.JournalEntry{
		ID:      uuid.New(),
		Summary: "I spent the afternoon planting tomatoes.",
		Tags:    []domain.EntryTag{{ID: themeID, Label: "Theme", Weight: 1.0}},
	}

	generator := &fakeGenerator{output: "{Theme: Gardening}"}
	renames := newRenameRecorder()
	queue := make(usecases.UnlabeledThemeChannel, 4)
	signalChan := make(chan struct{}, 10)

	cancel, doneChan := run(t, t.Context(), ThemeNamer{
		Logger:              log.New(io.Discard, "", 0),
		Queue:               queue,
		Labeler:             semantics.NewLabeler(generator),
		EntryRepository:     fakeEntryLister{entries: []domain.JournalEntry{taggedEntry}},
		RenameThemeUseCase:  renames,
		Interval:            10 * time.Millisecond,
		BatchSize:           16,
		EvidencePageSize:    20,
		workerExecutionChan: signalChan,
	})

	queue <- theme

	waitForBatchSignals(t, signalChan, 1, 1*time.Second)

	cancel()
	waitRunnableStop(t, doneChan)

	assert.Equal(t, []string{"Gardening"}, renames.labelsFor(themeID))
}

func TestThemeNamer_SkipsThemeWithoutEvidence(t *testing.T) {
	theme := domain.Theme{ID: uuid.New(), Label: "Theme"}
	untaggedEntry := domain.JournalEntry{
		ID:      uuid.New(),
		Summary: "Unrelated entry.",
		Tags:    []domain.EntryTag{{ID: uuid.New(), Label: "Other", Weight: 1.0}},
	}

	generator := &fakeGenerator{output: "{Theme: Gardening}"}
	renames := newRenameRecorder()
	queue := make(usecases.UnlabeledThemeChannel, 4)
	signalChan := make(chan struct{}, 10)

	cancel, doneChan := run(t, t.Context(), ThemeNamer{
		Logger:              log.New(io.Discard, "", 0),
		Queue:               queue,
		Labeler:             semantics.NewLabeler(generator),
		EntryRepository:     fakeEntryLister{entries: []domain.JournalEntry{untaggedEntry}},
		RenameThemeUseCase:  renames,
		Interval:            10 * time.Millisecond,
		BatchSize:           16,
		EvidencePageSize:    20,
		workerExecutionChan: signalChan,
	})

	queue <- theme

	waitForBatchSignals(t, signalChan, 1, 1*time.Second)

	cancel()
	waitRunnableStop(t, doneChan)

	assert.Equal(t, 0, generator.callCount())
	assert.Empty(t, renames.labelsFor(theme.ID))
}

func TestThemeNamer_DeduplicatesQueuedThemes(t *testing.T) {
	themeID := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	theme := domain.Theme{ID: themeID, Label: "Theme"}
	filler := domain.Theme{ID: uuid.New(), Label: "Theme"}
	taggedEntry := domain.JournalEntry{
		ID:      uuid.New(),
		Summary: "I went for a long run by the river.",
		Tags:    []domain.EntryTag{{ID: themeID, Label: "Theme", Weight: 1.0}},
	}

	generator := &fakeGenerator{output: "{Theme: Running}"}
	renames := newRenameRecorder()
	queue := make(usecases.UnlabeledThemeChannel, 4)
	signalChan := make(chan struct{}, 10)

	cancel, doneChan := run(t, t.Context(), ThemeNamer{
		Logger:              log.New(io.Discard, "", 0),
		Queue:               queue,
		Labeler:             semantics.NewLabeler(generator),
		EntryRepository:     fakeEntryLister{entries: []domain.JournalEntry{taggedEntry}},
		RenameThemeUseCase:  renames,
		Interval:            time.Hour,
		BatchSize:           2,
		EvidencePageSize:    20,
		workerExecutionChan: signalChan,
	})

	// The duplicate collapses into one batch slot; the filler theme tops
	// the batch up to the flush threshold.
	queue <- theme
	queue <- theme
	queue <- filler

	waitForBatchSignals(t, signalChan, 1, 1*time.Second)

	cancel()
	waitRunnableStop(t, doneChan)

	assert.Equal(t, []string{"Running"}, renames.labelsFor(themeID))
	assert.Equal(t, 1, generator.callCount())
}
