package modelrunner

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/telemetry"
)

// Generator adapts the chat completions endpoint to domain.TextGenerator.
type Generator struct {
	client DRMAPIClient
	model  string
}

// NewGenerator creates a Generator for the given generation model.
func NewGenerator(client DRMAPIClient, model string) Generator {
	return Generator{client: client, model: model}
}

// Generate implements domain.TextGenerator.
func (g Generator) Generate(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	req := ChatRequest{
		Model:    g.model,
		Messages: []ChatMessage{{Role: "user", Content: prompt}},
	}
	if opts.MaxNewTokens > 0 {
		maxTokens := opts.MaxNewTokens
		req.MaxTokens = &maxTokens
	}
	temperature := opts.Temperature
	req.Temperature = &temperature
	if opts.TopP > 0 {
		topP := opts.TopP
		req.TopP = &topP
	}

	resp, err := g.client.Chat(spanCtx, req)
	if telemetry.RecordErrorAndStatus(span, err) {
		return "", err
	}
	if len(resp.Choices) == 0 {
		err := errors.New("no choices in response")
		telemetry.RecordErrorAndStatus(span, err)
		return "", err
	}

	return resp.Choices[0].Message.Content, nil
}

// InitGenerator initializes the text generator and registers it in the
// dependency container. Generation is optional: without a configured model
// themes keep their default labels until renamed by hand.
type InitGenerator struct {
	HttpClient      *http.Client `resolve:""`
	Logger          *log.Logger  `resolve:""`
	ModelHost       string       `config:"MODEL_RUNNER_HOST"`
	GenerationModel string       `config:"GENERATION_MODEL" default:""`
}

// Initialize registers the domain.TextGenerator implementation when a model
// is configured.
func (ig InitGenerator) Initialize(ctx context.Context) (context.Context, error) {
	if ig.GenerationModel == "" {
		ig.Logger.Printf("INFO no generation model configured, theme naming disabled")
		return ctx, nil
	}
	depend.Register[domain.TextGenerator](NewGenerator(
		NewDRMAPIClient(ig.ModelHost, "", ig.HttpClient),
		ig.GenerationModel,
	))
	return ctx, nil
}
