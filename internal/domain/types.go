package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MessageKind identifies who produced a chat message.
type MessageKind string

const (
	KindUser      MessageKind = "user"
	KindAssistant MessageKind = "assistant"
	KindError     MessageKind = "error"
)

// PageNumber is a page index that tolerates the index's loose typing:
// the backend may emit a number, a numeric string, an empty string or null.
// Zero means "no page".
type PageNumber int

// UnmarshalJSON accepts numbers, numeric strings, "" and null.
func (p *PageNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*p = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		*p = 0
		return nil
	}
	*p = PageNumber(n)
	return nil
}

// MarshalJSON emits a plain number.
func (p PageNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// Reference is the primary source descriptor attached to an answer,
// distinct from the (possibly multiple) citations.
type Reference struct {
	Folder string     `json:"folder,omitempty"`
	File   string     `json:"file,omitempty"`
	Page   PageNumber `json:"page,omitempty"`
	URL    string     `json:"url,omitempty"`
}

// IsZero reports whether no field carries a value.
func (r *Reference) IsZero() bool {
	if r == nil {
		return true
	}
	return strings.TrimSpace(r.Folder) == "" &&
		strings.TrimSpace(r.File) == "" &&
		r.Page == 0 &&
		strings.TrimSpace(r.URL) == ""
}

// Citation is a structured pointer to a source passage supporting part of
// an answer. Produced only by the backend; rendered, never mutated.
type Citation struct {
	Page         PageNumber `json:"page,omitempty"`
	Quote        string     `json:"quote"`
	DocumentLink string     `json:"document_link,omitempty"`
}

// Answer is the backend's reply to a question.
type Answer struct {
	Answer     string     `json:"answer"`
	Reference  *Reference `json:"reference,omitempty"`
	Citations  []Citation `json:"citations,omitempty"`
	Hits       *int       `json:"hits,omitempty"`
	Confidence *int       `json:"confidence,omitempty"`
	Markdown   bool       `json:"markdown,omitempty"`
}

// Message is one entry in a chat session. Immutable once appended.
type Message struct {
	ID         int64
	Kind       MessageKind
	Content    string
	Reference  *Reference
	Citations  []Citation
	Confidence *int
	Hits       *int
	Timestamp  string
}

// DocumentDescriptor describes one document in the cloud inventory.
type DocumentDescriptor struct {
	Name     string `json:"name"`
	FullPath string `json:"full_path,omitempty"`
	Size     int64  `json:"size,omitempty"`
	URL      string `json:"url,omitempty"`
}

// DocumentList is the inventory endpoint's response shape.
type DocumentList struct {
	Error string               `json:"error,omitempty"`
	PDFs  []DocumentDescriptor `json:"pdfs"`
	Count int                  `json:"count"`
}

// PageInfo is one indexed page of an inspected document.
type PageInfo struct {
	Page    PageNumber `json:"page"`
	Preview string     `json:"preview"`
	URL     string     `json:"url,omitempty"`
}

// DocumentDetail is the inspection endpoint's response shape.
type DocumentDetail struct {
	Error      string     `json:"error,omitempty"`
	PDFName    string     `json:"pdf_name"`
	TotalPages int        `json:"total_pages"`
	Pages      []PageInfo `json:"pages"`
}

// ServiceInfo is whatever JSON object the health probe returns.
type ServiceInfo map[string]any

// CitationFix is the payload of the citation-correction endpoint.
// The endpoint itself is not implemented server-side.
type CitationFix struct {
	File  string     `json:"file,omitempty"`
	Page  PageNumber `json:"page,omitempty"`
	Quote string     `json:"quote,omitempty"`
}

// SearchHit is one retrieval result from the remote document index.
type SearchHit struct {
	Chunk  string
	File   string
	Folder string
	Page   PageNumber
	URL    string
	Score  float64
}
