package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPage1 = `<?xml version="1.0" encoding="utf-8"?>
<EnumerationResults>
  <Blobs>
    <Blob>
      <Name>guides/Product Guides.pdf</Name>
      <Properties><Content-Length>102400</Content-Length></Properties>
    </Blob>
    <Blob>
      <Name>guides/readme.txt</Name>
      <Properties><Content-Length>12</Content-Length></Properties>
    </Blob>
  </Blobs>
  <NextMarker>m2</NextMarker>
</EnumerationResults>`

const listPage2 = `<?xml version="1.0" encoding="utf-8"?>
<EnumerationResults>
  <Blobs>
    <Blob>
      <Name>guides/Install Manual.PDF</Name>
      <Properties><Content-Length>2048</Content-Length></Properties>
    </Blob>
  </Blobs>
  <NextMarker/>
</EnumerationResults>`

func TestListPDFsFollowsMarkersAndFilters(t *testing.T) {
	t.Setenv("TEST_BLOB_SAS", "?sv=2024&sig=abc")

	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "container", q.Get("restype"))
		assert.Equal(t, "list", q.Get("comp"))
		assert.Equal(t, "guides/", q.Get("prefix"))
		assert.Equal(t, "abc", q.Get("sig"))
		seen = append(seen, q.Get("marker"))
		w.Header().Set("Content-Type", "application/xml")
		if q.Get("marker") == "m2" {
			fmt.Fprint(w, listPage2)
			return
		}
		fmt.Fprint(w, listPage1)
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		AccountURL: srv.URL,
		Container:  "docs",
		Prefix:     "guides/",
		SASEnv:     "TEST_BLOB_SAS",
		Timeout:    2 * time.Second,
	})
	require.NoError(t, err)

	docs, err := c.ListPDFs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "m2"}, seen)
	require.Len(t, docs, 2)

	assert.Equal(t, "Product Guides.pdf", docs[0].Name)
	assert.Equal(t, "guides/Product Guides.pdf", docs[0].FullPath)
	assert.Equal(t, int64(102400), docs[0].Size)
	assert.Equal(t, srv.URL+"/docs/guides/Product%20Guides.pdf", docs[0].URL)

	// case-insensitive extension match, the .txt blob is skipped
	assert.Equal(t, "Install Manual.PDF", docs[1].Name)
}

func TestListPDFsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewClient(Config{AccountURL: srv.URL, Container: "docs"})
	require.NoError(t, err)

	_, err = c.ListPDFs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestNewClientRequiresAccount(t *testing.T) {
	_, err := NewClient(Config{Container: "docs"})
	require.Error(t, err)
}
