package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/lucrohq/lucro/internal/ledger"
	"github.com/lucrohq/lucro/internal/model"
	"github.com/lucrohq/lucro/internal/store"
)

// maxBodySize caps mutation request bodies.
const maxBodySize = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	txs, err := s.ledger.Query(r.Context(), from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r)
	summary, err := s.ledger.Metrics(r.Context(), from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, verr := s.readPayload(w, r)
	if verr != nil {
		s.writeValidation(w, verr)
		return
	}

	tx, err := s.ledger.Create(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	p, verr := s.readPayload(w, r)
	if verr != nil {
		s.writeValidation(w, verr)
		return
	}

	tx, err := s.ledger.Patch(r.Context(), r.PathValue("id"), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.Remove(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) (ledger.Payload, *ledger.ValidationError) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return ledger.DecodePayload(nil) // reports the body as malformed
	}
	return ledger.DecodePayload(body)
}

// dateRange pulls the from/to bounds off the query string. Malformed values
// impose no bound, same as absent ones.
func dateRange(r *http.Request) (from, to string) {
	q := r.URL.Query()
	return cleanDate(q.Get("from")), cleanDate(q.Get("to"))
}

func cleanDate(v string) string {
	if v == "" {
		return ""
	}
	if _, err := time.Parse(model.DateFormat, v); err != nil {
		return ""
	}
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) writeValidation(w http.ResponseWriter, verr *ledger.ValidationError) {
	s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Report})
}

// writeError maps service errors onto the HTTP taxonomy: validation to 400,
// unknown ids to 404, anything else (storage failure) to a logged 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeValidation(w, verr)
	case errors.Is(err, store.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Transaction not found"})
	default:
		s.log.Error().Err(err).Msg("storage failure")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
