// Package api wraps outbound HTTP calls to the docchat backend. It attaches
// default headers and a timeout, and normalizes transport and server
// failures into the four error kinds of errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"docchat/internal/domain"
)

// DefaultTimeout bounds every round-trip, including /ask. A pending request
// resolves within this bound even if the network never answers.
const DefaultTimeout = 60 * time.Second

// Client talks to the backend over HTTP/JSON.
type Client struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithLogger sets the logger used for request/response lines.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckHealth probes the backend root. Any 2xx response with a body counts
// as healthy.
func (c *Client) CheckHealth(ctx context.Context) (domain.ServiceInfo, error) {
	var info domain.ServiceInfo
	if err := c.do(ctx, http.MethodGet, "/", nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// Ask submits a question and returns the backend's answer. Empty or
// whitespace-only questions are rejected before any network call.
func (c *Client) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInvalidInput)
	}
	body := map[string]string{"query": question}
	var ans domain.Answer
	if err := c.do(ctx, http.MethodPost, "/ask", body, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

// ListDocuments fetches the cloud document inventory. Best-effort: failures
// surface through the normal error taxonomy.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.DocumentDescriptor, error) {
	var list domain.DocumentList
	if err := c.do(ctx, http.MethodGet, "/list-cloud-pdfs", nil, &list); err != nil {
		return nil, err
	}
	if list.Error != "" {
		return nil, &ServerError{Status: http.StatusOK, Message: list.Error}
	}
	return list.PDFs, nil
}

// InspectDocument fetches the indexed pages of a single document.
func (c *Client) InspectDocument(ctx context.Context, name string) (*domain.DocumentDetail, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: document name is empty", ErrInvalidInput)
	}
	var detail domain.DocumentDetail
	if err := c.do(ctx, http.MethodGet, "/inspect/"+url.PathEscape(name), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CorrectCitation submits a citation fix. The backend does not implement
// this yet, so the call surfaces the server's not-implemented response.
func (c *Client) CorrectCitation(ctx context.Context, fix domain.CitationFix) error {
	return c.do(ctx, http.MethodPost, "/correct-citation", fix, nil)
}

// do performs one JSON round-trip and normalizes every failure into exactly
// one of ErrTimeout, ErrUnreachable or *ServerError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	u := c.baseURL + path
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", "method", method, "url", u)
	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.log.Error("request timed out", "method", method, "url", u)
			return fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		c.log.Error("request failed", "method", method, "url", u, "err", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s %s", ErrTimeout, method, path)
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	c.log.Debug("response", "status", resp.StatusCode, "url", u)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: errorMessage(payload, resp.Status)}
	}
	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return &ServerError{Status: resp.StatusCode, Message: "malformed response body"}
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// errorMessage extracts a message from the backend's error body convention:
// {detail} first, then {error}, else the HTTP status text.
func errorMessage(body []byte, statusText string) string {
	var eb struct {
		Detail string `json:"detail"`
		Err    string `json:"error"`
	}
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != "" {
			return eb.Detail
		}
		if eb.Err != "" {
			return eb.Err
		}
	}
	return statusText
}
