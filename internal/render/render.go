// Package render transforms raw answer text plus structured reference and
// citation data into display blocks. It is deliberately not a markdown
// parser: the contract covers line classification, bold spans and bare
// URLs, nothing more.
package render

import (
	"regexp"
	"strings"
)

// BlockKind classifies a display block.
type BlockKind int

const (
	// Paragraph is a plain non-empty line.
	Paragraph BlockKind = iota
	// NumberedItem is a line like "1. **Heading**".
	NumberedItem
	// SubItem is a line like "- detail" or "  - detail".
	SubItem
	// LineBreak is an empty source line.
	LineBreak
	// ReferenceRow is one field of the answer's primary reference.
	ReferenceRow
	// HitCount is the retrieval hit-count line.
	HitCount
	// CitationItem is one entry of the citation list.
	CitationItem
	// Confidence is the confidence percentage line.
	Confidence
)

// SpanKind classifies an inline span within a block.
type SpanKind int

const (
	// SpanText is plain text.
	SpanText SpanKind = iota
	// SpanBold is text that was wrapped in **markers**.
	SpanBold
	// SpanLink is a URL; its visible text is the URL itself.
	SpanLink
)

// Span is an inline run of text within a block.
type Span struct {
	Kind SpanKind
	Text string
}

// Block is one display node. Label carries the field name for reference
// rows and the page label for citation items.
type Block struct {
	Kind  BlockKind
	Label string
	Spans []Span
}

// Text returns the block's concatenated span text, markers stripped.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var (
	numberedRe = regexp.MustCompile(`^\d+\.\s+\*\*`)
	subItemRe  = regexp.MustCompile(`^\s*-\s+`)
	urlRe      = regexp.MustCompile(`https?://\S+`)
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Render splits text into classified blocks. Rendering the empty string
// yields no blocks; plain text with no markup round-trips unchanged.
func Render(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			blocks = append(blocks, Block{Kind: LineBreak})
		case numberedRe.MatchString(line):
			blocks = append(blocks, Block{Kind: NumberedItem, Spans: spans(line)})
		case subItemRe.MatchString(line):
			blocks = append(blocks, Block{Kind: SubItem, Spans: spans(line)})
		default:
			blocks = append(blocks, Block{Kind: Paragraph, Spans: spans(line)})
		}
	}
	return blocks
}

// spans splits a line into inline spans: URLs first, then bold markers on
// the non-URL segments. A single pass each; the two substitutions never
// nest. An unterminated ** stays literal.
func spans(line string) []Span {
	var out []Span
	last := 0
	for _, loc := range urlRe.FindAllStringIndex(line, -1) {
		if loc[0] > last {
			out = append(out, boldSpans(line[last:loc[0]])...)
		}
		out = append(out, Span{Kind: SpanLink, Text: line[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(line) {
		out = append(out, boldSpans(line[last:])...)
	}
	return out
}

func boldSpans(seg string) []Span {
	var out []Span
	last := 0
	for _, loc := range boldRe.FindAllStringSubmatchIndex(seg, -1) {
		if loc[0] > last {
			out = append(out, Span{Kind: SpanText, Text: seg[last:loc[0]]})
		}
		out = append(out, Span{Kind: SpanBold, Text: seg[loc[2]:loc[3]]})
		last = loc[1]
	}
	if last < len(seg) {
		out = append(out, Span{Kind: SpanText, Text: seg[last:]})
	}
	return out
}
