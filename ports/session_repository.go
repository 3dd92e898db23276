package ports

import (
	"context"

	"dataviz/domain/core"
	"dataviz/domain/dataset"
)

// SessionStore caches loaded uploads between requests. Only the original
// table is kept; everything downstream is recomputed per request.
type SessionStore interface {
	// Put stores ds and returns the stored record. An upload whose content
	// hash is already cached returns the existing record instead.
	Put(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error)

	// Get returns the dataset for id or an error wrapping core.ErrSessionNotFound
	Get(ctx context.Context, id core.SessionID) (*dataset.Dataset, error)

	// Delete drops id from the cache
	Delete(ctx context.Context, id core.SessionID) error

	// List returns every live dataset, oldest first
	List(ctx context.Context) ([]*dataset.Dataset, error)
}
