package modelrunner

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/nickspeelman/reflect/internal/domain"
)

func TestClassifier_Classify_LabelSchemes(t *testing.T) {
	tests := map[string]struct {
		model       string
		scores      []LabelScore
		expectedPos float64
		expectedNeg float64
		expectedNeu float64
	}{
		"roberta ternary LABEL scheme": {
			model: "cardiffnlp-twitter-roberta-base-sentiment",
			scores: []LabelScore{
				{Label: "LABEL_2", Score: 0.7},
				{Label: "LABEL_1", Score: 0.2},
				{Label: "LABEL_0", Score: 0.1},
			},
			expectedPos: 0.7,
			expectedNeg: 0.1,
			expectedNeu: 0.2,
		},
		"spelled-out ternary labels": {
			model: "some-ternary-model",
			scores: []LabelScore{
				{Label: "negative", Score: 0.6},
				{Label: "neutral", Score: 0.3},
				{Label: "positive", Score: 0.1},
			},
			expectedPos: 0.1,
			expectedNeg: 0.6,
			expectedNeu: 0.3,
		},
		"binary sst-2 keeps a neutral sliver": {
			model: "distilbert-sst-2",
			scores: []LabelScore{
				{Label: "POSITIVE", Score: 1.0},
				{Label: "NEGATIVE", Score: 0.0},
			},
			expectedPos: 0.97,
			expectedNeg: 0,
			expectedNeu: 0.03,
		},
		"star ratings bucket into polarity": {
			model: "bert-base-multilingual-uncased-sentiment",
			scores: []LabelScore{
				{Label: "1 star", Score: 0.05},
				{Label: "2 stars", Score: 0.05},
				{Label: "3 stars", Score: 0.1},
				{Label: "4 stars", Score: 0.3},
				{Label: "5 stars", Score: 0.5},
			},
			expectedPos: 0.8,
			expectedNeg: 0.1,
			expectedNeu: 0.1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(ClassifyResponse{Data: [][]LabelScore{tc.scores}}) //nolint:errcheck
			}))
			defer server.Close()

			classifier := NewClassifier(NewDRMAPIClient(server.URL, "", server.Client()), tc.model, log.New(io.Discard, "", 0))

			dist, err := classifier.Classify(context.Background(), "anything")
			require.NoError(t, err)
			assert.InDelta(t, tc.expectedPos, dist.Positive, 1e-9)
			assert.InDelta(t, tc.expectedNeg, dist.Negative, 1e-9)
			assert.InDelta(t, tc.expectedNeu, dist.Neutral, 1e-9)
			assert.InDelta(t, 1.0, dist.Positive+dist.Negative+dist.Neutral, 1e-9)
		})
	}
}

func TestClassifier_Classify_Margin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ClassifyResponse{Data: [][]LabelScore{{ //nolint:errcheck
			{Label: "LABEL_2", Score: 0.7},
			{Label: "LABEL_1", Score: 0.2},
			{Label: "LABEL_0", Score: 0.1},
		}}})
	}))
	defer server.Close()

	classifier := NewClassifier(NewDRMAPIClient(server.URL, "", server.Client()), "roberta", log.New(io.Discard, "", 0))

	dist, err := classifier.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dist.Margin, 1e-9)
}

func TestClassifier_Classify_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ClassifyResponse{}) //nolint:errcheck
	}))
	defer server.Close()

	classifier := NewClassifier(NewDRMAPIClient(server.URL, "", server.Client()), "roberta", log.New(io.Discard, "", 0))

	_, err := classifier.Classify(context.Background(), "anything")
	assert.EqualError(t, err, "classify response has no data")
}

func TestNormalizeDistribution_AllZeroFallsBackToNeutral(t *testing.T) {
	dist := normalizeDistribution(domain.SentimentDistribution{})
	assert.Equal(t, domain.SentimentDistribution{Neutral: 1}, dist)
}
