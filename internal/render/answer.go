package render

import (
	"fmt"
	"strconv"
	"strings"

	"docchat/internal/domain"
)

// citationFallbackLabel labels a citation that carries no page number.
const citationFallbackLabel = "Document Reference"

// MessageBlocks renders a full message: the answer text, then the reference
// block, the hit-count line, the citation list and the confidence line, in
// that fixed order. Absent optional fields produce no blocks at all.
func MessageBlocks(m domain.Message) []Block {
	blocks := Render(m.Content)
	blocks = append(blocks, referenceRows(m.Reference)...)
	if m.Hits != nil {
		blocks = append(blocks, Block{
			Kind:  HitCount,
			Spans: []Span{{Kind: SpanText, Text: fmt.Sprintf("%d matching chunks", *m.Hits)}},
		})
	}
	for _, c := range m.Citations {
		blocks = append(blocks, citationItem(c))
	}
	if m.Confidence != nil {
		blocks = append(blocks, Block{
			Kind:  Confidence,
			Spans: []Span{{Kind: SpanText, Text: fmt.Sprintf("Confidence: %d%%", *m.Confidence)}},
		})
	}
	return blocks
}

// referenceRows emits one row per present reference field, in folder, file,
// page, link order. A nil or all-blank reference emits nothing.
func referenceRows(r *domain.Reference) []Block {
	if r.IsZero() {
		return nil
	}
	var rows []Block
	if f := strings.TrimSpace(r.Folder); f != "" {
		rows = append(rows, refRow("Folder", Span{Kind: SpanText, Text: f}))
	}
	if f := strings.TrimSpace(r.File); f != "" {
		rows = append(rows, refRow("File", Span{Kind: SpanText, Text: f}))
	}
	if r.Page > 0 {
		rows = append(rows, refRow("Page", Span{Kind: SpanText, Text: strconv.Itoa(int(r.Page))}))
	}
	if u := strings.TrimSpace(r.URL); u != "" {
		rows = append(rows, refRow("Document", Span{Kind: SpanLink, Text: u}))
	}
	return rows
}

func refRow(label string, value Span) Block {
	return Block{Kind: ReferenceRow, Label: label, Spans: []Span{value}}
}

func citationItem(c domain.Citation) Block {
	label := citationFallbackLabel
	if c.Page > 0 {
		label = "Page " + strconv.Itoa(int(c.Page))
	}
	spans := []Span{{Kind: SpanText, Text: c.Quote}}
	if link := strings.TrimSpace(c.DocumentLink); link != "" {
		spans = append(spans, Span{Kind: SpanLink, Text: link})
	}
	return Block{Kind: CitationItem, Label: label, Spans: spans}
}
