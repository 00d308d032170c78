package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/nickspeelman/reflect/internal/domain"
)

// GetDailyPrompt defines the interface for the GetDailyPrompt use case.
type GetDailyPrompt interface {
	Query(ctx context.Context) string
}

// GetDailyPromptImpl is the implementation of the GetDailyPrompt use case.
type GetDailyPromptImpl struct {
	timeProvider domain.CurrentTimeProvider
}

// NewGetDailyPromptImpl creates a new instance of GetDailyPromptImpl.
func NewGetDailyPromptImpl(timeProvider domain.CurrentTimeProvider) GetDailyPromptImpl {
	return GetDailyPromptImpl{timeProvider: timeProvider}
}

// Query returns today's reflection prompt.
func (gdpi GetDailyPromptImpl) Query(_ context.Context) string {
	return domain.PromptOfTheDay(gdpi.timeProvider.Now())
}

// InitGetDailyPrompt initializes the GetDailyPrompt use case and registers
// it in the dependency container.
type InitGetDailyPrompt struct {
	TimeService domain.CurrentTimeProvider `resolve:""`
}

// Initialize registers the GetDailyPrompt use case implementation.
func (igdp InitGetDailyPrompt) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[GetDailyPrompt](NewGetDailyPromptImpl(igdp.TimeService))
	return ctx, nil
}
