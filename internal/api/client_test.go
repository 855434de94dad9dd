package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestAskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ask", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"12 months","reference":{"file":"LD494.pdf","page":3},"hits":5,"confidence":87,"markdown":true}`))
	}))
	defer srv.Close()

	ans, err := NewClient(srv.URL).Ask(context.Background(), "What is the warranty period for LD494?")
	require.NoError(t, err)
	assert.Equal(t, "12 months", ans.Answer)
	require.NotNil(t, ans.Reference)
	assert.Equal(t, "LD494.pdf", ans.Reference.File)
	assert.Equal(t, domain.PageNumber(3), ans.Reference.Page)
	require.NotNil(t, ans.Hits)
	assert.Equal(t, 5, *ans.Hits)
	require.NotNil(t, ans.Confidence)
	assert.Equal(t, 87, *ans.Confidence)
}

func TestAskRejectsBlankQuestionLocally(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	for _, q := range []string{"", "   ", "\n\t "} {
		_, err := c.Ask(context.Background(), q)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, int32(0), calls.Load(), "no network call for blank input")
}

func TestAskServerErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail field", `{"detail":"index unavailable"}`, "index unavailable"},
		{"error field", `{"error":"search backend down"}`, "search backend down"},
		{"detail wins over error", `{"detail":"a","error":"b"}`, "a"},
		{"unstructured body", `oops`, "500 Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Ask(context.Background(), "q")
			var se *ServerError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusInternalServerError, se.Status)
			assert.Equal(t, tt.want, se.Message)
		})
	}
}

func TestAskTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := c.Ask(context.Background(), "slow question")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestAskNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := NewClient(srv.URL).Ask(context.Background(), "q")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL).CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, info["ok"])
}

func TestCheckHealthDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	_, err := NewClient(srv.URL).CheckHealth(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestListDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/list-cloud-pdfs", r.URL.Path)
		w.Write([]byte(`{"pdfs":[{"name":"LD494.pdf","full_path":"guides/LD494.pdf","size":1024}],"count":1}`))
	}))
	defer srv.Close()

	docs, err := NewClient(srv.URL).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "LD494.pdf", docs[0].Name)
}

func TestListDocumentsBestEffortError(t *testing.T) {
	// The backend reports inventory failures in-band with a 200.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"blob storage unavailable","pdfs":[],"count":0}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListDocuments(context.Background())
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "blob storage unavailable", se.Message)
}

func TestInspectDocumentEscapesName(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"pdf_name":"My Guide.pdf","total_pages":2,"pages":[{"page":1,"preview":"a..."},{"page":"2","preview":"b..."}]}`))
	}))
	defer srv.Close()

	detail, err := NewClient(srv.URL).InspectDocument(context.Background(), "My Guide.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/inspect/My%20Guide.pdf", gotPath)
	assert.Equal(t, 2, detail.TotalPages)
	// page numbers arrive as number or string; both decode
	assert.Equal(t, domain.PageNumber(1), detail.Pages[0].Page)
	assert.Equal(t, domain.PageNumber(2), detail.Pages[1].Page)
}

func TestCorrectCitationNotImplemented(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
		w.Write([]byte(`{"detail":"citation correction is not implemented"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).CorrectCitation(context.Background(), domain.CitationFix{File: "LD494.pdf"})
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotImplemented, se.Status)
	assert.Equal(t, "citation correction is not implemented", se.Message)
}

func TestUserMessageMapping(t *testing.T) {
	assert.Equal(t, "Please enter a question.", UserMessage(ErrInvalidInput))
	assert.Contains(t, UserMessage(ErrTimeout), "timed out")
	assert.Contains(t, UserMessage(ErrUnreachable), "Could not reach")
	assert.Contains(t, UserMessage(&ServerError{Status: 503, Message: "down"}), "HTTP 503")
	assert.Contains(t, UserMessage(errors.New("odd")), "odd")
}
