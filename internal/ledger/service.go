// Package ledger holds the business operations over the transaction store:
// range queries, metric summaries, and the create/patch/delete mutations.
package ledger

import (
	"context"
	"time"

	"github.com/lucrohq/lucro/internal/id"
	"github.com/lucrohq/lucro/internal/metrics"
	"github.com/lucrohq/lucro/internal/model"
	"github.com/lucrohq/lucro/internal/store"
)

// Service runs transaction operations against a Store.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates a ledger Service.
func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Query returns the transactions within [from, to], newest first. Empty
// bounds leave that side open.
func (s *Service) Query(ctx context.Context, from, to string) ([]model.Transaction, error) {
	return s.store.List(ctx, store.Range{From: from, To: to})
}

// Metrics aggregates the transactions within [from, to].
func (s *Service) Metrics(ctx context.Context, from, to string) (metrics.Summary, error) {
	txs, err := s.Query(ctx, from, to)
	if err != nil {
		return metrics.Summary{}, err
	}
	return metrics.Aggregate(txs), nil
}

// Create validates a creation payload, assigns id and createdAt, and
// inserts the record. Returns a *ValidationError on a bad payload.
func (s *Service) Create(ctx context.Context, p Payload) (model.Transaction, error) {
	if verr := p.validate(true); verr != nil {
		return model.Transaction{}, verr
	}

	now := s.now().UTC()
	tx := model.Transaction{
		ID:        id.New(*p.Date, now),
		Date:      *p.Date,
		Type:      *p.Type,
		Amount:    *p.Amount,
		CreatedAt: now,
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Note != nil {
		tx.Note = *p.Note
	}

	if err := s.store.Insert(ctx, tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// Patch merges the provided fields over the stored record. Omitted fields
// keep their prior values; id and createdAt are never touched. Returns
// store.ErrNotFound for an unknown id and *ValidationError for bad fields.
func (s *Service) Patch(ctx context.Context, txID string, p Payload) (model.Transaction, error) {
	if verr := p.validate(false); verr != nil {
		return model.Transaction{}, verr
	}

	tx, err := s.store.Get(ctx, txID)
	if err != nil {
		return model.Transaction{}, err
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Note != nil {
		tx.Note = *p.Note
	}

	if err := s.store.Update(ctx, tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// Remove deletes a transaction by id. Returns store.ErrNotFound if absent.
func (s *Service) Remove(ctx context.Context, txID string) error {
	return s.store.Delete(ctx, txID)
}
