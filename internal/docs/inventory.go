// Package docs provides the document inventory shown in the sidebar. The
// source is pluggable: the observed system ships a static placeholder, but
// a live backend listing can be selected instead.
package docs

import (
	"context"

	"docchat/internal/config"
	"docchat/internal/domain"
)

// Source yields the document inventory.
type Source interface {
	List(ctx context.Context) ([]domain.DocumentDescriptor, error)
}

// Static serves a fixed inventory from configuration.
type Static struct {
	docs []domain.DocumentDescriptor
}

// NewStatic builds a static source from config entries.
func NewStatic(entries []config.StaticEntry) *Static {
	docs := make([]domain.DocumentDescriptor, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, domain.DocumentDescriptor{Name: e.Name, FullPath: e.Path})
	}
	return &Static{docs: docs}
}

// List returns the configured entries.
func (s *Static) List(ctx context.Context) ([]domain.DocumentDescriptor, error) {
	out := make([]domain.DocumentDescriptor, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// Live queries the backend's inventory endpoint.
type Live struct {
	backend domain.Backend
}

// NewLive builds a live source over the given backend.
func NewLive(backend domain.Backend) *Live {
	return &Live{backend: backend}
}

// List fetches the inventory from the backend.
func (l *Live) List(ctx context.Context) ([]domain.DocumentDescriptor, error) {
	return l.backend.ListDocuments(ctx)
}
