package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/nickspeelman/reflect/internal/telemetry"
	"github.com/nickspeelman/reflect/internal/usecases"
	"github.com/rs/cors"
)

// ReflectServer is the REST API HTTP server for the Reflect application.
type ReflectServer struct {
	Port                      int                         `config:"HTTP_PORT" default:"8080"`
	Logger                    *log.Logger                 `resolve:""`
	CreateEntryUseCase        usecases.CreateEntry        `resolve:""`
	ListEntriesUseCase        usecases.ListEntries        `resolve:""`
	GetEntryUseCase           usecases.GetEntry           `resolve:""`
	ListRelatedEntriesUseCase usecases.ListRelatedEntries `resolve:""`
	ListThemesUseCase         usecases.ListThemes         `resolve:""`
	RenameThemeUseCase        usecases.RenameTheme        `resolve:""`
	InferSentimentUseCase     usecases.InferSentiment     `resolve:""`
	GetDailyPromptUseCase     usecases.GetDailyPrompt     `resolve:""`
}

// Run starts the HTTP server for the ReflectServer.
func (api ReflectServer) Run(ctx context.Context) error {

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", api.Health)
	mux.HandleFunc("POST /entries", api.CreateEntry)
	mux.HandleFunc("GET /entries", api.ListEntries)
	mux.HandleFunc("GET /entries/{entryId}", api.GetEntry)
	mux.HandleFunc("GET /entries/{entryId}/related", api.ListRelatedEntries)
	mux.HandleFunc("GET /themes", api.ListThemes)
	mux.HandleFunc("PATCH /themes/{themeId}", api.RenameTheme)
	mux.HandleFunc("POST /sentiment", api.InferSentiment)
	mux.HandleFunc("GET /prompts/today", api.GetDailyPrompt)

	// Register introspection endpoint for debugging and testing purposes
	mux.HandleFunc("/introspect", IntrospectHandler)

	h := telemetry.Middleware("reflect-api")(mux)

	// Apply CORS at the top-level so preflight requests hit it, too.
	h = cors.AllowAll().Handler(h)

	s := &http.Server{
		Handler: h,
		Addr:    fmt.Sprintf(":%d", api.Port),
	}

	errCh := make(chan error, 1)
	go func() {
		api.Logger.Printf("ReflectServer: Listening on port %d", api.Port)
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.Shutdown(shutdownCtx)
		if err != nil {
			api.Logger.Printf("ReflectServer: error during shutdown: %v", err)
		} else {
			api.Logger.Println("ReflectServer: stopped")
		}
		return err
	case err := <-errCh:
		return err
	}
}

// Health reports whether the service is up.
func (api ReflectServer) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"service": "reflect", "status": "ok"})
}

// IsReady checks if the ReflectServer is ready by performing a health check.
func (api ReflectServer) IsReady(ctx context.Context) error {
	resp, err := http.Get(fmt.Sprintf("http://:%d", api.Port))
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
