package usecases

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter            = otel.Meter("usecases")
	EntriesProcessed metric.Int64Counter
	ThemesCreated    metric.Int64Counter
	ModelTokensUsed  metric.Int64Counter
)

func init() {
	var err error
	EntriesProcessed, err = meter.Int64Counter(
		"journal_entries_processed_total",
		metric.WithDescription("Total journal entries run through the aggregation pipeline"),
	)
	if err != nil {
		panic(err)
	}

	ThemesCreated, err = meter.Int64Counter(
		"journal_themes_created_total",
		metric.WithDescription("Total themes created by the clustering engine"),
	)
	if err != nil {
		panic(err)
	}

	// Tokens consumed by the model backends (embedding + generation)
	ModelTokensUsed, err = meter.Int64Counter(
		"model_tokens_used_total",
		metric.WithDescription("Total model backend tokens consumed"),
	)
	if err != nil {
		panic(err)
	}
}

// RecordEntryProcessed records one completed pipeline run.
func RecordEntryProcessed(ctx context.Context, sentimentLabel string) {
	EntriesProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sentiment", sentimentLabel),
	))
}

// RecordThemesCreated records themes the clustering engine added.
func RecordThemesCreated(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	ThemesCreated.Add(ctx, int64(count))
}

// RecordEmbeddingTokens records tokens used by an embedding operation.
func RecordEmbeddingTokens(ctx context.Context, totalTokens int) {
	ModelTokensUsed.Add(ctx, int64(totalTokens), metric.WithAttributes(
		attribute.String("token_type", "embedding"),
	))
}
