// Package store persists transactions. Two implementations share one
// contract: a JSON-file store that never fails a read, and a Postgres store
// that surfaces storage errors. The backend is chosen at startup.
package store

import (
	"context"
	"errors"

	"github.com/lucrohq/lucro/internal/model"
)

// ErrNotFound reports that a mutation target id is absent.
var ErrNotFound = errors.New("transaction not found")

// Range bounds a date query. Empty strings leave that side unbounded; both
// bounds are inclusive.
type Range struct {
	From string
	To   string
}

// Store is the persistence contract. List returns records in the canonical
// order: date descending, createdAt descending (newest first).
type Store interface {
	List(ctx context.Context, r Range) ([]model.Transaction, error)
	Get(ctx context.Context, id string) (model.Transaction, error)
	Insert(ctx context.Context, tx model.Transaction) error
	Update(ctx context.Context, tx model.Transaction) error
	Delete(ctx context.Context, id string) error
	Close()
}
