package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lucrohq/lucro/internal/metrics"
	"github.com/lucrohq/lucro/internal/model"
)

// FileStore keeps the whole collection in a single JSON array on disk.
//
// Reads are fail-soft: a missing, unreadable, or non-array file yields an
// empty collection, and records that fail validation are dropped (the count
// is logged). Mutations serialize through a mutex and rewrite the file via
// temp-then-rename, which closes the read-modify-write race for a single
// process.
type FileStore struct {
	path string
	log  zerolog.Logger

	mu sync.Mutex // guards read-modify-write cycles
}

// NewFileStore creates a FileStore backed by the JSON file at path.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log.With().Str("store", "file").Logger()}
}

var _ Store = (*FileStore)(nil)

// List returns the records within r, date descending then createdAt
// descending. It never returns an error.
func (s *FileStore) List(_ context.Context, r Range) ([]model.Transaction, error) {
	s.mu.Lock()
	txs := s.readAll()
	s.mu.Unlock()
	return metrics.Filter(txs, r.From, r.To), nil
}

func (s *FileStore) Get(_ context.Context, id string) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.readAll() {
		if tx.ID == id {
			return tx, nil
		}
	}
	return model.Transaction{}, ErrNotFound
}

func (s *FileStore) Insert(_ context.Context, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := append(s.readAll(), tx)
	return s.writeAll(txs)
}

func (s *FileStore) Update(_ context.Context, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.readAll()
	for i := range txs {
		if txs[i].ID == tx.ID {
			txs[i] = tx
			return s.writeAll(txs)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.readAll()
	kept := txs[:0]
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(txs) {
		return ErrNotFound
	}
	return s.writeAll(kept)
}

func (s *FileStore) Close() {}

// readAll loads the backing file, dropping anything that does not look like
// a valid transaction. Corruption is healed silently apart from a warning
// with the dropped count.
func (s *FileStore) readAll() []model.Transaction {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("reading transactions file, starting empty")
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn().Err(err).Msg("transactions file is not a JSON array, starting empty")
		return nil
	}

	txs := make([]model.Transaction, 0, len(raw))
	dropped := 0
	for _, entry := range raw {
		var tx model.Transaction
		if err := json.Unmarshal(entry, &tx); err != nil {
			dropped++
			continue
		}
		if err := tx.Validate(); err != nil {
			dropped++
			continue
		}
		txs = append(txs, tx)
	}
	if dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Msg("dropped invalid records on read")
	}
	return txs
}

// writeAll sorts the collection into canonical order and atomically
// replaces the backing file.
func (s *FileStore) writeAll(txs []model.Transaction) error {
	sortCanonical(txs)

	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling transactions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".transactions-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing transactions file: %w", err)
	}
	return nil
}

// sortCanonical orders newest first: date descending, createdAt descending
// on equal dates. The read path relies on this ordering.
func sortCanonical(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date > txs[j].Date
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
