package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateArticleParsesOllamaEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "{\"interest\": 7, \"local_relevance\": 8, \"community_impact\": 9}"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", srv.Client(), nil)
	got, err := c.RateArticle(context.Background(), "road closure", "main street closed")

	require.NoError(t, err)
	assert.Equal(t, Scores{Interest: 7, LocalRelevance: 8, CommunityImpact: 9}, got)
}

func TestRateArticleParsesInlineJSONWithProse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "Here are the scores: {\"interest\": 3, \"local_relevance\": 2, \"community_impact\": 1} hope that helps"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", srv.Client(), nil)
	got, err := c.RateArticle(context.Background(), "t", "b")

	require.NoError(t, err)
	assert.Equal(t, Scores{Interest: 3, LocalRelevance: 2, CommunityImpact: 1}, got)
}

func TestRateArticleRetriesServerErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"response": "{\"interest\": 5, \"local_relevance\": 5, \"community_impact\": 5}"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", srv.Client(), nil)
	c.backoff = 0

	got, err := c.RateArticle(context.Background(), "t", "b")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 5, got.Interest)
}

func TestRateArticleDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", srv.Client(), nil)
	c.backoff = 0

	_, err := c.RateArticle(context.Background(), "t", "b")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestParseScoresRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := parseScores([]byte(`{"interest": 12, "local_relevance": 1, "community_impact": 1}`))
	assert.Error(t, err)
}
