// Package llm is a client for an Azure OpenAI chat-completion deployment.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client calls the chat completions endpoint of a managed deployment.
type Client struct {
	endpoint    string
	deployment  string
	apiKey      string
	apiVersion  string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// Config configures the chat-completion client.
type Config struct {
	Endpoint    string
	Deployment  string
	APIKeyEnv   string
	APIVersion  string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates a chat-completion client. The API key is read from the
// environment variable named in APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("chat endpoint is required")
	}
	if cfg.Deployment == "" {
		cfg.Deployment = "gpt-4.1"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-02-01"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		deployment:  cfg.Deployment,
		apiKey:      key,
		apiVersion:  cfg.APIVersion,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: t},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends a system+user prompt pair and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	body, _ := json.Marshal(map[string]any{
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion failed: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no completion returned")
	}
	return out.Choices[0].Message.Content, nil
}
