package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lucrohq/lucro/internal/model"
)

// Schema is the DDL for the transactions table.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id         text PRIMARY KEY,
    date       text NOT NULL,
    type       text NOT NULL,
    amount     numeric NOT NULL,
    category   text,
    note       text,
    created_at timestamptz NOT NULL
)`

// PostgresStore keeps one row per transaction and pushes filtering and
// ordering down to SQL. Unlike the file store it surfaces storage errors to
// the caller.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool and ensures the transactions table exists.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring transactions table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

var _ Store = (*PostgresStore)(nil)

const selectCols = "id, date, type, amount, category, note, created_at"

func (s *PostgresStore) List(ctx context.Context, r Range) ([]model.Transaction, error) {
	q := "SELECT " + selectCols + " FROM transactions"
	var args []any
	switch {
	case r.From != "" && r.To != "":
		q += " WHERE date >= $1 AND date <= $2"
		args = []any{r.From, r.To}
	case r.From != "":
		q += " WHERE date >= $1"
		args = []any{r.From}
	case r.To != "":
		q += " WHERE date <= $1"
		args = []any{r.To}
	}
	q += " ORDER BY date DESC, created_at DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transaction rows: %w", err)
	}
	return txs, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (model.Transaction, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectCols+" FROM transactions WHERE id = $1", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Transaction{}, ErrNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (s *PostgresStore) Insert(ctx context.Context, tx model.Transaction) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, date, type, amount, category, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.ID, tx.Date, string(tx.Type), tx.Amount, nullable(tx.Category), nullable(tx.Note), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, tx model.Transaction) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions
		 SET date = $2, type = $3, amount = $4, category = $5, note = $6
		 WHERE id = $1`,
		tx.ID, tx.Date, string(tx.Type), tx.Amount, nullable(tx.Category), nullable(tx.Note))
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var tx model.Transaction
	var amount decimal.Decimal
	var category, note *string

	err := row.Scan(&tx.ID, &tx.Date, &tx.Type, &amount, &category, &note, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("scanning transaction row: %w", err)
	}

	tx.Amount = amount
	if category != nil {
		tx.Category = *category
	}
	if note != nil {
		tx.Note = *note
	}
	return tx, nil
}

// nullable maps an empty string to SQL NULL for the optional columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
