package domain

import "context"

// Backend is the client-side port to the question-answering backend.
type Backend interface {
	CheckHealth(ctx context.Context) (ServiceInfo, error)
	Ask(ctx context.Context, question string) (*Answer, error)
	ListDocuments(ctx context.Context) ([]DocumentDescriptor, error)
	InspectDocument(ctx context.Context, name string) (*DocumentDetail, error)
	CorrectCitation(ctx context.Context, fix CitationFix) error
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// DocumentIndex queries the remote search index.
type DocumentIndex interface {
	// Search runs a hybrid keyword+vector query and returns scored hits.
	Search(ctx context.Context, query string, vector []float64, topK int) ([]SearchHit, error)
	// Pages returns the indexed pages of a single file.
	Pages(ctx context.Context, file string) ([]PageInfo, error)
}

// Completer produces an answer from a system prompt and a user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// BlobLister enumerates documents held in cloud blob storage.
type BlobLister interface {
	ListPDFs(ctx context.Context) ([]DocumentDescriptor, error)
}
