// Package search is a minimal REST client to the managed search index. It
// runs hybrid keyword+vector queries, optionally with semantic reranking.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"docchat/internal/domain"
)

// Client queries one index of the managed search service.
type Client struct {
	endpoint       string
	index          string
	apiKey         string
	semanticConfig string
	apiVersion     string
	client         *http.Client
}

// Config contains connection details for the search index.
type Config struct {
	Endpoint       string
	Index          string
	APIKeyEnv      string
	SemanticConfig string
	APIVersion     string
	Timeout        time.Duration
}

// NewClient creates a search client. The API key is read from the
// environment variable named in APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Endpoint == "" || cfg.Index == "" {
		return nil, errors.New("search endpoint and index are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2023-07-01-Preview"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:       strings.TrimSuffix(cfg.Endpoint, "/"),
		index:          cfg.Index,
		apiKey:         key,
		semanticConfig: cfg.SemanticConfig,
		apiVersion:     cfg.APIVersion,
		client:         &http.Client{Timeout: timeout},
	}, nil
}

type searchDoc struct {
	Chunk  string            `json:"chunk"`
	File   string            `json:"file"`
	Folder string            `json:"folder"`
	Page   domain.PageNumber `json:"page"`
	URL    string            `json:"url"`
	Score  float64           `json:"@search.score"`
}

// Search runs a hybrid query: keyword search plus a vector clause, with
// semantic reranking when a semantic configuration is set.
func (c *Client) Search(ctx context.Context, query string, vector []float64, topK int) ([]domain.SearchHit, error) {
	if topK <= 0 {
		topK = 5
	}
	body := map[string]any{
		"search": query,
		"top":    topK,
	}
	if len(vector) > 0 {
		body["vectors"] = []map[string]any{{
			"value":  vector,
			"fields": "text_vector",
			"k":      topK,
		}}
	}
	if c.semanticConfig != "" {
		body["queryType"] = "semantic"
		body["semanticConfiguration"] = c.semanticConfig
	}

	var resp struct {
		Value []searchDoc `json:"value"`
	}
	if err := c.postJSON(ctx, body, &resp); err != nil {
		return nil, err
	}
	hits := make([]domain.SearchHit, 0, len(resp.Value))
	for _, d := range resp.Value {
		hits = append(hits, domain.SearchHit{
			Chunk:  d.Chunk,
			File:   d.File,
			Folder: d.Folder,
			Page:   d.Page,
			URL:    d.URL,
			Score:  d.Score,
		})
	}
	return hits, nil
}

// previewLen caps the chunk excerpt returned by Pages.
const previewLen = 200

// Pages returns the indexed pages of a single file, with short previews.
func (c *Client) Pages(ctx context.Context, file string) ([]domain.PageInfo, error) {
	// single quotes double inside OData string literals
	safe := strings.ReplaceAll(file, "'", "''")
	body := map[string]any{
		"search": "",
		"filter": fmt.Sprintf("file eq '%s'", safe),
		"top":    20,
		"select": "chunk,file,page,url",
	}
	var resp struct {
		Value []searchDoc `json:"value"`
	}
	if err := c.postJSON(ctx, body, &resp); err != nil {
		return nil, err
	}
	pages := make([]domain.PageInfo, 0, len(resp.Value))
	for _, d := range resp.Value {
		pages = append(pages, domain.PageInfo{
			Page:    d.Page,
			Preview: preview(d.Chunk),
			URL:     d.URL,
		})
	}
	return pages, nil
}

func preview(chunk string) string {
	r := []rune(chunk)
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return string(r) + "..."
}

func (c *Client) postJSON(ctx context.Context, body, out any) error {
	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.index, c.apiVersion)
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("search query failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
