//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rest "github.com/nickspeelman/reflect/internal/adapters/inbound/http"
	"github.com/nickspeelman/reflect/internal/app"
	"github.com/nickspeelman/reflect/internal/domain"
)

const apiBaseURL = "http://localhost:8080"

func TestReflectApp_Integration(t *testing.T) {
	modelRunner := newFakeModelRunner()
	defer modelRunner.Close()

	reflectApp := app.NewReflectApp(
		&initEnvVars{
			envVars: map[string]string{
				"VAULT_ADDR":                  "http://localhost:8200",
				"VAULT_TOKEN":                 "root-token",
				"VAULT_MOUNT_PATH":            "secret",
				"VAULT_SECRET_PATH":           "reflect",
				"OTEL_EXPORTER_OTLP_ENDPOINT": "http://localhost:4318",
				"DB_HOST":                     "localhost",
				"DB_PORT":                     "5432",
				"DB_NAME":                     "reflectdb",
				"MODEL_RUNNER_HOST":           modelRunner.URL,
				"EMBEDDING_MODEL":             "ai/embeddinggemma",
				"SENTIMENT_MODEL":             "ai/sentiment-ternary",
				"GENERATION_MODEL":            "ai/gpt-oss",
			},
		},
		&InitDockerCompose{},
	)

	cancelCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownCh := reflectApp.RunAsync(cancelCtx)

	err := reflectApp.WaitForReadiness(cancelCtx, 10*time.Minute)
	if err != nil {
		cancel()
		t.Fatalf("Reflect app failed to become ready: %v", err)
	}

	t.Run("get-daily-prompt", func(t *testing.T) {
		var resp rest.DailyPromptResp
		status := doJSON(t, http.MethodGet, "/prompts/today", nil, &resp)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, resp.Prompt)
	})

	var firstEntry, secondEntry rest.Entry
	t.Run("create-entries", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, "/entries", rest.CreateEntryRequest{
			Prompt:   "What energized you today?",
			Response: "I planted tomatoes in the garden today. The sun was warm and I felt calm.",
		}, &firstEntry)
		require.Equal(t, http.StatusCreated, status)
		require.NotEmpty(t, firstEntry.Summary)
		require.Equal(t, domain.Sentiment_Positive, firstEntry.Sentiment.Label)
		require.NotEmpty(t, firstEntry.Tags)

		status = doJSON(t, http.MethodPost, "/entries", rest.CreateEntryRequest{
			Prompt:   "What energized you today?",
			Response: "I planted peppers in the garden today. The sun was warm and I felt calm.",
		}, &secondEntry)
		require.Equal(t, http.StatusCreated, status)
	})

	t.Run("list-entries", func(t *testing.T) {
		var resp rest.ListEntriesResp
		status := doJSON(t, http.MethodGet, "/entries?page=1&page_size=10", nil, &resp)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, resp.Items, 2)
	})

	t.Run("semantic-search", func(t *testing.T) {
		var resp rest.ListEntriesResp
		status := doJSON(t, http.MethodGet, "/entries?query=planted+tomatoes+garden+sun+warm+calm", nil, &resp)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, resp.Items)
	})

	t.Run("get-entry", func(t *testing.T) {
		var resp rest.Entry
		status := doJSON(t, http.MethodGet, "/entries/"+firstEntry.Id.String(), nil, &resp)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, firstEntry.Id, resp.Id)
	})

	t.Run("related-entries", func(t *testing.T) {
		var resp rest.ListRelatedEntriesResp
		status := doJSON(t, http.MethodGet, "/entries/"+firstEntry.Id.String()+"/related", nil, &resp)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, resp.Items, "expected the near-duplicate entry to rank as related")
		require.Equal(t, secondEntry.Id, resp.Items[0].Entry.Id)
	})

	var themes rest.ListThemesResp
	t.Run("list-themes", func(t *testing.T) {
		status := doJSON(t, http.MethodGet, "/themes", nil, &themes)
		require.Equal(t, http.StatusOK, status)
		require.NotEmpty(t, themes.Items)
	})

	t.Run("rename-theme", func(t *testing.T) {
		target := themes.Items[0]
		status := doJSON(t, http.MethodPatch, "/themes/"+target.Id.String(), rest.RenameThemeRequest{
			Label: "Garden Season",
		}, nil)
		require.Equal(t, http.StatusNoContent, status)

		var after rest.ListThemesResp
		status = doJSON(t, http.MethodGet, "/themes", nil, &after)
		require.Equal(t, http.StatusOK, status)

		found := false
		for _, theme := range after.Items {
			if theme.Id == target.Id {
				require.Equal(t, "Garden Season", theme.Label)
				found = true
			}
		}
		require.True(t, found, "renamed theme should still be listed")
	})

	t.Run("infer-sentiment", func(t *testing.T) {
		var resp domain.SentimentResult
		status := doJSON(t, http.MethodPost, "/sentiment", rest.InferSentimentRequest{
			Text: "I feel grateful and calm today.",
		}, &resp)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, domain.Sentiment_Positive, resp.Label)
	})

	// Shutdown the app
	cancel()

	select {
	case <-time.After(1 * time.Minute):
		t.Fatalf("Reflect app did not shut down in time")
	case err = <-shutdownCh:
		if err != nil {
			t.Fatalf("Reflect app shutdown with error: %v", err)
		} else {
			t.Logf("Reflect app shut down gracefully")
		}
	}
}

// doJSON performs a JSON request against the running API and decodes the
// response into out when out is non-nil.
func doJSON(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, apiBaseURL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	if out != nil {
		err = json.NewDecoder(resp.Body).Decode(out)
		require.NoError(t, err, fmt.Sprintf("failed to decode %s %s response", method, path))
	}
	return resp.StatusCode
}

type initEnvVars struct {
	envVars map[string]string
}

func (i *initEnvVars) Initialize(ctx context.Context) (context.Context, error) {
	for key, value := range i.envVars {
		os.Setenv(key, value) //nolint:errcheck
	}
	return ctx, nil
}

func (i *initEnvVars) Close() {
	for key := range i.envVars {
		os.Unsetenv(key) //nolint:errcheck
	}
}
