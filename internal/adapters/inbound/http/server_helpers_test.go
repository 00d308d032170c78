package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"

	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/usecases"
)

type stubCreateEntry struct {
	fn func(ctx context.Context, prompt, response string) (domain.JournalEntry, error)
}

func (s stubCreateEntry) Execute(ctx context.Context, prompt, response string) (domain.JournalEntry, error) {
	return s.fn(ctx, prompt, response)
}

type stubListEntries struct {
	fn func(ctx context.Context, page, pageSize int, opts ...usecases.ListEntriesOptions) ([]domain.JournalEntry, bool, error)
}

func (s stubListEntries) Query(ctx context.Context, page, pageSize int, opts ...usecases.ListEntriesOptions) ([]domain.JournalEntry, bool, error) {
	return s.fn(ctx, page, pageSize, opts...)
}

type stubGetEntry struct {
	fn func(ctx context.Context, id uuid.UUID) (domain.JournalEntry, error)
}

func (s stubGetEntry) Query(ctx context.Context, id uuid.UUID) (domain.JournalEntry, error) {
	return s.fn(ctx, id)
}

type stubListRelatedEntries struct {
	fn func(ctx context.Context, id uuid.UUID) ([]domain.RelatedEntry, error)
}

func (s stubListRelatedEntries) Query(ctx context.Context, id uuid.UUID) ([]domain.RelatedEntry, error) {
	return s.fn(ctx, id)
}

type stubListThemes struct {
	fn func(ctx context.Context) ([]domain.Theme, error)
}

func (s stubListThemes) Query(ctx context.Context) ([]domain.Theme, error) {
	return s.fn(ctx)
}

type stubRenameTheme struct {
	fn func(ctx context.Context, id uuid.UUID, label string) error
}

func (s stubRenameTheme) Execute(ctx context.Context, id uuid.UUID, label string) error {
	return s.fn(ctx, id, label)
}

type stubInferSentiment struct {
	fn func(ctx context.Context, text string, path usecases.SentimentPath) (domain.SentimentResult, error)
}

func (s stubInferSentiment) Execute(ctx context.Context, text string, path usecases.SentimentPath) (domain.SentimentResult, error) {
	return s.fn(ctx, text, path)
}

type stubGetDailyPrompt struct {
	fn func(ctx context.Context) string
}

func (s stubGetDailyPrompt) Query(ctx context.Context) string {
	return s.fn(ctx)
}

func newTestServer() ReflectServer {
	return ReflectServer{
		Port:   8080,
		Logger: log.New(io.Discard, "", 0),
	}
}

// serializeJSON is a helper function to marshal a value to JSON for test requests.
func serializeJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}
