//go:build integration

package integration

import (
	"encoding/json"
	"hash/fnv"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/nickspeelman/reflect/internal/adapters/outbound/modelrunner"
)

const fakeEmbeddingDims = 768

// newFakeModelRunner serves deterministic model-runner responses: bag-of-words
// embeddings so overlapping texts land close together, a fixed positive
// sentiment distribution, and a fixed theme label.
func newFakeModelRunner() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /engines/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req modelrunner.EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var inputs []string
		switch v := req.Input.(type) {
		case string:
			inputs = []string{v}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					inputs = append(inputs, s)
				}
			}
		}

		resp := modelrunner.EmbeddingsResponse{Model: req.Model, Object: "list"}
		totalTokens := 0
		for i, input := range inputs {
			vec := bagOfWordsVector(input)
			raw, _ := json.Marshal(vec)
			resp.Data = append(resp.Data, modelrunner.EmbeddingData{
				Embedding: raw,
				Index:     i,
				Object:    "embedding",
			})
			totalTokens += len(strings.Fields(input))
		}
		resp.Usage = modelrunner.EmbeddingsUsage{PromptTokens: totalTokens, TotalTokens: totalTokens}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	mux.HandleFunc("POST /engines/v1/classify", func(w http.ResponseWriter, r *http.Request) {
		var req modelrunner.ClassifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := modelrunner.ClassifyResponse{
			Model: req.Model,
			Data: [][]modelrunner.LabelScore{{
				{Label: "positive", Score: 0.999},
				{Label: "negative", Score: 0.001},
				{Label: "neutral", Score: 0.0},
			}},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		resp := modelrunner.ChatResponse{
			Choices: []modelrunner.Choice{
				{Message: modelrunner.Message{Role: "assistant", Content: "{Theme: Garden Days}"}},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	return httptest.NewServer(mux)
}

// bagOfWordsVector hashes each token into a fixed slot and L2-normalizes the
// result, so texts sharing words get a high cosine similarity.
func bagOfWordsVector(text string) []float64 {
	vec := make([]float64, fakeEmbeddingDims)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:'\"")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(token)) //nolint:errcheck
		vec[h.Sum32()%fakeEmbeddingDims]++
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
