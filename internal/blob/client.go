// Package blob lists documents in a cloud blob container via the List Blobs
// REST operation, authenticating with a SAS token.
package blob

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"docchat/internal/domain"
)

// Client enumerates one blob container.
type Client struct {
	accountURL string
	container  string
	prefix     string
	sas        string
	client     *http.Client
}

// Config configures the blob lister. SASEnv names the environment variable
// holding the container's SAS query string ("sv=...&sig=...").
type Config struct {
	AccountURL string
	Container  string
	Prefix     string
	SASEnv     string
	Timeout    time.Duration
}

// NewClient creates a container lister.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccountURL == "" || cfg.Container == "" {
		return nil, fmt.Errorf("blob account URL and container are required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		accountURL: strings.TrimSuffix(cfg.AccountURL, "/"),
		container:  cfg.Container,
		prefix:     cfg.Prefix,
		sas:        strings.TrimPrefix(os.Getenv(cfg.SASEnv), "?"),
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type enumerationResults struct {
	XMLName xml.Name `xml:"EnumerationResults"`
	Blobs   struct {
		Blob []struct {
			Name       string `xml:"Name"`
			Properties struct {
				ContentLength int64 `xml:"Content-Length"`
			} `xml:"Properties"`
		} `xml:"Blob"`
	} `xml:"Blobs"`
	NextMarker string `xml:"NextMarker"`
}

// ListPDFs enumerates the container and returns a descriptor per PDF blob,
// following continuation markers until the listing is exhausted.
func (c *Client) ListPDFs(ctx context.Context) ([]domain.DocumentDescriptor, error) {
	var docs []domain.DocumentDescriptor
	marker := ""
	for {
		page, err := c.listPage(ctx, marker)
		if err != nil {
			return nil, err
		}
		for _, b := range page.Blobs.Blob {
			if !strings.HasSuffix(strings.ToLower(b.Name), ".pdf") {
				continue
			}
			docs = append(docs, domain.DocumentDescriptor{
				Name:     path.Base(b.Name),
				FullPath: b.Name,
				Size:     b.Properties.ContentLength,
				URL:      c.blobURL(b.Name),
			})
		}
		if page.NextMarker == "" {
			return docs, nil
		}
		marker = page.NextMarker
	}
}

func (c *Client) listPage(ctx context.Context, marker string) (*enumerationResults, error) {
	q := url.Values{}
	q.Set("restype", "container")
	q.Set("comp", "list")
	if c.prefix != "" {
		q.Set("prefix", c.prefix)
	}
	if marker != "" {
		q.Set("marker", marker)
	}
	u := fmt.Sprintf("%s/%s?%s", c.accountURL, c.container, q.Encode())
	if c.sas != "" {
		u += "&" + c.sas
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("blob listing failed: %s", resp.Status)
	}
	var out enumerationResults
	if err := xml.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// blobURL builds a direct link to the blob, escaping each path segment but
// keeping the separators, and without the SAS token.
func (c *Client) blobURL(name string) string {
	segs := strings.Split(name, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", c.accountURL, c.container, strings.Join(segs, "/"))
}
