// Package rag answers questions over an indexed document collection by
// combining vector search with chat completion.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docchat/internal/domain"
)

const (
	maxContextChunks = 8
	maxChunkChars    = 1200
	defaultTopK      = 5
)

const systemPrompt = "You are a precise assistant."

const answerInstructions = `Answer the question using ONLY the context below.
Structure the answer as numbered section headings in bold, with short bullet
points under each. Bold key terms and include units exactly as they appear in
the context. If sources conflict, state the conflict. Do not add a summary.

Context:
%s

Question: %s`

const fallbackInstructions = `No relevant passages were found in the document
collection for the question below. Say so briefly, and suggest how the user
might rephrase the question.

Question: %s`

// Service wires the embedding, search, completion and blob clients into the
// question-answering pipeline.
type Service struct {
	embedder  domain.Embedder
	index     domain.DocumentIndex
	completer domain.Completer
	blobs     domain.BlobLister
	log       *zap.Logger
}

func New(embedder domain.Embedder, index domain.DocumentIndex, completer domain.Completer, blobs domain.BlobLister, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{embedder: embedder, index: index, completer: completer, blobs: blobs, log: log}
}

// Answer runs the full pipeline: embed the query, retrieve matching chunks,
// and ask the completion model to answer from them. Retrieval failures are
// reported inside the answer body rather than as errors, so the caller always
// has something to show.
func (s *Service) Answer(ctx context.Context, query string, topK int) (*domain.Answer, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	reqID := uuid.NewString()
	log := s.log.With(zap.String("request_id", reqID))
	log.Info("answering query", zap.Int("top_k", topK))

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Warn("embedding failed, falling back to text-only search", zap.Error(err))
		vector = nil
	}

	hits, err := s.index.Search(ctx, query, vector, topK)
	if err != nil {
		log.Error("search failed", zap.Error(err))
		zero := 0
		return &domain.Answer{
			Answer:     "Search error: " + err.Error(),
			Confidence: &zero,
			Hits:       &zero,
			Markdown:   true,
		}, nil
	}

	if len(hits) == 0 {
		log.Info("no matching chunks")
		text, err := s.completer.Complete(ctx, systemPrompt, fmt.Sprintf(fallbackInstructions, query))
		if err != nil {
			return nil, fmt.Errorf("complete: %w", err)
		}
		zero := 0
		return &domain.Answer{Answer: text, Confidence: &zero, Hits: &zero, Markdown: true}, nil
	}

	text, err := s.completer.Complete(ctx, systemPrompt, fmt.Sprintf(answerInstructions, buildContext(hits), query))
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	first := hits[0]
	maxScore := first.Score
	for _, h := range hits {
		if h.Score > maxScore {
			maxScore = h.Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}
	confidence := int(first.Score / maxScore * 100)
	hitCount := len(hits)

	log.Info("answered", zap.Int("hits", hitCount), zap.Int("confidence", confidence))
	return &domain.Answer{
		Answer: text,
		Reference: &domain.Reference{
			Folder: first.Folder,
			File:   first.File,
			Page:   first.Page,
			URL:    first.URL,
		},
		Confidence: &confidence,
		Hits:       &hitCount,
		Markdown:   true,
	}, nil
}

// buildContext concatenates the top chunks, each truncated and tagged with
// its source, into the prompt context.
func buildContext(hits []domain.SearchHit) string {
	var b strings.Builder
	for i, h := range hits {
		if i >= maxContextChunks {
			break
		}
		chunk := h.Chunk
		if runes := []rune(chunk); len(runes) > maxChunkChars {
			chunk = string(runes[:maxChunkChars])
		}
		fmt.Fprintf(&b, "[Source: %s/%s | Page %d]\n%s\n\n", h.Folder, h.File, h.Page, chunk)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ListDocuments enumerates the PDF blobs in the configured container.
func (s *Service) ListDocuments(ctx context.Context) (*domain.DocumentList, error) {
	docs, err := s.blobs.ListPDFs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	if docs == nil {
		docs = []domain.DocumentDescriptor{}
	}
	return &domain.DocumentList{PDFs: docs, Count: len(docs)}, nil
}

// Inspect returns the indexed pages of a single document.
func (s *Service) Inspect(ctx context.Context, name string) (*domain.DocumentDetail, error) {
	pages, err := s.index.Pages(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("inspect %q: %w", name, err)
	}
	if pages == nil {
		pages = []domain.PageInfo{}
	}
	return &domain.DocumentDetail{PDFName: name, TotalPages: len(pages), Pages: pages}, nil
}
