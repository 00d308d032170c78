package modelrunner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/common"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// EmbeddingPrompter formats texts for a specific embedding model family.
type EmbeddingPrompter interface {
	// PassagePrompt formats a sentence or passage for indexing.
	PassagePrompt(text string) string
	// QueryPrompt formats a search input.
	QueryPrompt(query string) string
}

// prompterFor picks the prompt format for the given model name.
func prompterFor(model string) EmbeddingPrompter {
	if strings.Contains(model, "embeddinggemma") {
		return gemmaPrompter{}
	}
	return plainPrompter{}
}

// gemmaPrompter implements the EmbeddingPrompter interface for the Gemma
// embedding model.
type gemmaPrompter struct{}

func (gemmaPrompter) PassagePrompt(text string) string {
	return fmt.Sprintf("title: none | text: %s", text)
}

func (gemmaPrompter) QueryPrompt(query string) string {
	return fmt.Sprintf("task: search result | query: %s", query)
}

// plainPrompter is a fallback that passes texts through unchanged.
type plainPrompter struct{}

func (plainPrompter) PassagePrompt(text string) string { return text }
func (plainPrompter) QueryPrompt(query string) string  { return query }

// Encoder adapts the model runner embeddings endpoint to
// domain.SemanticEncoder.
type Encoder struct {
	client   DRMAPIClient
	model    string
	prompter EmbeddingPrompter
	logger   *log.Logger
}

// NewEncoder creates an Encoder for the given embedding model.
func NewEncoder(client DRMAPIClient, model string, logger *log.Logger) Encoder {
	return Encoder{
		client:   client,
		model:    model,
		prompter: prompterFor(model),
		logger:   logger,
	}
}

// VectorizeText implements domain.SemanticEncoder.
func (e Encoder) VectorizeText(ctx context.Context, text string) (domain.EmbeddingVector, error) {
	return e.embed(ctx, e.prompter.PassagePrompt(text))
}

// VectorizeQuery implements domain.SemanticEncoder.
func (e Encoder) VectorizeQuery(ctx context.Context, query string) (domain.EmbeddingVector, error) {
	return e.embed(ctx, e.prompter.QueryPrompt(query))
}

func (e Encoder) embed(ctx context.Context, input string) (domain.EmbeddingVector, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	resp, err := e.client.Embeddings(spanCtx, EmbeddingsRequest{Model: e.model, Input: input})
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.EmbeddingVector{}, err
	}
	if len(resp.Data) == 0 {
		err := fmt.Errorf("embeddings response has no data")
		telemetry.RecordErrorAndStatus(span, err)
		return domain.EmbeddingVector{}, err
	}

	vector := e.normalizeShape(resp.Data[0].Embedding)
	return domain.EmbeddingVector{
		Vector:      vector,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

// normalizeShape accepts either a flat vector or a per-token matrix, which
// gets mean-pooled. Anything else yields an empty vector with a warning so
// one bad response cannot poison downstream math.
func (e Encoder) normalizeShape(raw json.RawMessage) []float64 {
	var flat []float64
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat
	}

	var matrix [][]float64
	if err := json.Unmarshal(raw, &matrix); err == nil && len(matrix) > 0 {
		return common.MeanVector(matrix)
	}

	e.logger.Printf("WARN unexpected embedding shape for model %s", e.model)
	return []float64{}
}

// InitEncoder initializes the semantic encoder and registers it in the
// dependency container.
type InitEncoder struct {
	HttpClient     *http.Client `resolve:""`
	Logger         *log.Logger  `resolve:""`
	ModelHost      string       `config:"MODEL_RUNNER_HOST"`
	EmbeddingModel string       `config:"EMBEDDING_MODEL"`
}

// Initialize registers the domain.SemanticEncoder implementation.
func (ie InitEncoder) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.SemanticEncoder](NewEncoder(
		NewDRMAPIClient(ie.ModelHost, "", ie.HttpClient),
		ie.EmbeddingModel,
		ie.Logger,
	))
	return ctx, nil
}
