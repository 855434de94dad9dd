package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func newTestClient(t *testing.T, url string, semantic string) *Client {
	t.Helper()
	t.Setenv("SEARCH_KEY_TEST", "sk")
	c, err := NewClient(Config{
		Endpoint:       url,
		Index:          "docs-index",
		APIKeyEnv:      "SEARCH_KEY_TEST",
		SemanticConfig: semantic,
	})
	require.NoError(t, err)
	return c
}

func TestSearchHybridBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes/docs-index/docs/search", r.URL.Path)
		assert.Equal(t, "2023-07-01-Preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "sk", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"value":[{"chunk":"warranty of 12 months","file":"LD494.pdf","folder":"guides","page":3,"url":"https://x/d.pdf#page=3","@search.score":2.5}]}`))
	}))
	defer srv.Close()

	hits, err := newTestClient(t, srv.URL, "docs-semantic").Search(context.Background(), "warranty", []float64{0.1}, 5)
	require.NoError(t, err)

	assert.Equal(t, "warranty", got["search"])
	assert.EqualValues(t, 5, got["top"])
	assert.Equal(t, "semantic", got["queryType"])
	assert.Equal(t, "docs-semantic", got["semanticConfiguration"])
	vectors := got["vectors"].([]any)
	require.Len(t, vectors, 1)
	assert.Equal(t, "text_vector", vectors[0].(map[string]any)["fields"])

	require.Len(t, hits, 1)
	assert.Equal(t, domain.SearchHit{
		Chunk: "warranty of 12 months", File: "LD494.pdf", Folder: "guides",
		Page: 3, URL: "https://x/d.pdf#page=3", Score: 2.5,
	}, hits[0])
}

func TestSearchOmitsSemanticWhenUnset(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"value":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, "").Search(context.Background(), "q", nil, 0)
	require.NoError(t, err)
	assert.NotContains(t, got, "queryType")
	assert.NotContains(t, got, "vectors")
	assert.EqualValues(t, 5, got["top"], "topK defaults to 5")
}

func TestPagesEscapesQuotes(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"value":[{"chunk":"` + strings.Repeat("a", 300) + `","page":"1","url":"u"}]}`))
	}))
	defer srv.Close()

	pages, err := newTestClient(t, srv.URL, "").Pages(context.Background(), "O'Brien's Guide.pdf")
	require.NoError(t, err)

	assert.Equal(t, "file eq 'O''Brien''s Guide.pdf'", got["filter"])
	assert.EqualValues(t, 20, got["top"])
	require.Len(t, pages, 1)
	assert.Equal(t, domain.PageNumber(1), pages[0].Page)
	assert.Len(t, pages[0].Preview, 203, "200 chars plus ellipsis")
	assert.True(t, strings.HasSuffix(pages[0].Preview, "..."))
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, "").Search(context.Background(), "q", nil, 5)
	assert.ErrorContains(t, err, "403")
}
