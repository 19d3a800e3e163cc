// Package remote is the per-user document store that mirrors the local
// cache. Each user owns one namespace holding one collection per entity
// kind.
package remote

import (
	"context"
	"fmt"

	"github.com/vocabulous/vocabulous/internal/model"
)

// MaxBatchWrites is the largest number of writes committed atomically by
// SetAll and DeleteAll. Larger batches are split into chunks of this size.
const MaxBatchWrites = 500

// ErrNotFound is returned by Get for a missing document.
var ErrNotFound = fmt.Errorf("remote document: %w", model.ErrNotFound)

// Document is one stored entity: its id plus a JSON-compatible field map.
type Document struct {
	ID   string
	Data map[string]any
}

// Namespace is one user's remote document space. An empty collection is
// a normal result, never an error.
type Namespace interface {
	// UserID returns the owner of the namespace.
	UserID() string

	// List returns every document in the collection, ordered by id.
	List(ctx context.Context, kind model.Kind) ([]Document, error)

	// Probe reports whether the collection holds at least one document.
	Probe(ctx context.Context, kind model.Kind) (bool, error)

	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, kind model.Kind, id string) (Document, error)

	// Set creates or replaces a document.
	Set(ctx context.Context, kind model.Kind, doc Document) error

	// SetAll creates or replaces documents in chunks of MaxBatchWrites.
	// Each chunk is atomic; chunks are not atomic with each other.
	SetAll(ctx context.Context, kind model.Kind, docs []Document) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, kind model.Kind, id string) error

	// DeleteAll removes every document in the collection.
	DeleteAll(ctx context.Context, kind model.Kind) error

	Close() error
}

// ErrUnavailable indicates the remote store could not be reached or
// rejected the operation for a transient reason.
type ErrUnavailable struct {
	Op  string
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote %s unavailable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote %s unavailable", e.Op)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// chunks splits docs into consecutive slices of at most size elements.
func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}
