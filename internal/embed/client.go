// Package embed is a client for an Azure OpenAI embeddings deployment.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Client calls the embeddings endpoint of a managed deployment.
type Client struct {
	endpoint   string
	deployment string
	apiKey     string
	apiVersion string
	client     *http.Client
	maxRetries int
}

// Config configures the embeddings client.
type Config struct {
	Endpoint   string
	Deployment string
	APIKeyEnv  string
	APIVersion string
	Timeout    time.Duration
}

// NewClient creates an embeddings client using the provided configuration.
// The API key is read from the environment variable named in APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("embedding endpoint is required")
	}
	if cfg.Deployment == "" {
		cfg.Deployment = "text-embedding-3-large"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-02-01"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		deployment: cfg.Deployment,
		apiKey:     key,
		apiVersion: cfg.APIVersion,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}, nil
}

// Embed returns an embedding vector for the given text. Transient failures
// (429 and 5xx) are retried with exponential backoff, honoring Retry-After.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/embeddings?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	body, _ := json.Marshal(map[string]string{"input": text})

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				if werr := wait(ctx, retryDelay(attempt)); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, perr := strconv.Atoi(ra); perr == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			if attempt < c.maxRetries {
				if werr := wait(ctx, delay); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("embeddings request failed: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		}

		var out struct {
			Data []struct {
				Embedding []float64 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, err
		}
		if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
			return nil, errors.New("no embedding returned")
		}
		return out.Data[0].Embedding, nil
	}
	return nil, errors.New("no embedding returned")
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
