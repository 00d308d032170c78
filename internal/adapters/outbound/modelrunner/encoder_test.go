package modelrunner

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEncoderServer(t *testing.T, embedding string, capture *EmbeddingsRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Write([]byte(`{"usage":{"total_tokens":5},"data":[{"embedding":` + embedding + `,"index":0}]}`)) //nolint:errcheck
	}))
}

func TestEncoder_VectorizeText_FlatVector(t *testing.T) {
	server := newEncoderServer(t, `[0.6,0.8]`, nil)
	defer server.Close()

	encoder := NewEncoder(NewDRMAPIClient(server.URL, "", server.Client()), "all-minilm", log.New(io.Discard, "", 0))

	vec, err := encoder.VectorizeText(context.Background(), "a quiet morning")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.6, 0.8}, vec.Vector)
	assert.Equal(t, 5, vec.TotalTokens)
}

func TestEncoder_VectorizeText_TokenMatrixIsMeanPooled(t *testing.T) {
	server := newEncoderServer(t, `[[1,0],[0,1]]`, nil)
	defer server.Close()

	encoder := NewEncoder(NewDRMAPIClient(server.URL, "", server.Client()), "all-minilm", log.New(io.Discard, "", 0))

	vec, err := encoder.VectorizeText(context.Background(), "a quiet morning")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, vec.Vector)
}

func TestEncoder_VectorizeText_UnknownShapeWarns(t *testing.T) {
	server := newEncoderServer(t, `"not a vector"`, nil)
	defer server.Close()

	var buf strings.Builder
	encoder := NewEncoder(NewDRMAPIClient(server.URL, "", server.Client()), "all-minilm", log.New(&buf, "", 0))

	vec, err := encoder.VectorizeText(context.Background(), "a quiet morning")
	require.NoError(t, err)
	assert.Empty(t, vec.Vector)
	assert.Contains(t, buf.String(), "unexpected embedding shape")
}

func TestEncoder_GemmaPrompts(t *testing.T) {
	var captured EmbeddingsRequest
	server := newEncoderServer(t, `[1]`, &captured)
	defer server.Close()

	encoder := NewEncoder(NewDRMAPIClient(server.URL, "", server.Client()), "embeddinggemma-300m", log.New(io.Discard, "", 0))

	_, err := encoder.VectorizeText(context.Background(), "a quiet morning")
	require.NoError(t, err)
	assert.Equal(t, "title: none | text: a quiet morning", captured.Input)

	_, err = encoder.VectorizeQuery(context.Background(), "mornings")
	require.NoError(t, err)
	assert.Equal(t, "task: search result | query: mornings", captured.Input)
}

func TestEncoder_EmptyDataErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"usage":{"total_tokens":0},"data":[]}`)) //nolint:errcheck
	}))
	defer server.Close()

	encoder := NewEncoder(NewDRMAPIClient(server.URL, "", server.Client()), "all-minilm", log.New(io.Discard, "", 0))

	_, err := encoder.VectorizeText(context.Background(), "a quiet morning")
	assert.EqualError(t, err, "embeddings response has no data")
}
