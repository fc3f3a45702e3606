package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucrohq/lucro/internal/model"
)

// Payload is a client-supplied transaction body. Nil fields were absent
// from the request; id and createdAt are never client-writable and are
// ignored if sent.
type Payload struct {
	Date     *string                `json:"date"`
	Type     *model.TransactionType `json:"type"`
	Amount   *decimal.Decimal       `json:"amount"`
	Category *string                `json:"category"`
	Note     *string                `json:"note"`
}

// ErrorReport is the machine-readable shape returned on validation failure:
// request-level problems in FormErrors, per-field problems in FieldErrors.
type ErrorReport struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// ValidationError carries an ErrorReport through the error chain.
type ValidationError struct {
	Report ErrorReport
}

func (e *ValidationError) Error() string {
	var parts []string
	parts = append(parts, e.Report.FormErrors...)
	for field, msgs := range e.Report.FieldErrors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func formError(msg string) *ValidationError {
	return &ValidationError{Report: ErrorReport{
		FormErrors:  []string{msg},
		FieldErrors: map[string][]string{},
	}}
}

type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe fieldErrors) toError() *ValidationError {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Report: ErrorReport{
		FormErrors:  []string{},
		FieldErrors: fe,
	}}
}

// DecodePayload parses a request body into a Payload, reporting per-field
// type mismatches instead of failing on the first one.
func DecodePayload(data []byte) (Payload, *ValidationError) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Payload{}, formError("request body must be a JSON object")
	}

	var p Payload
	fe := fieldErrors{}

	if v, ok := raw["date"]; ok {
		if err := json.Unmarshal(v, &p.Date); err != nil {
			fe.add("date", "must be a string")
		}
	}
	if v, ok := raw["type"]; ok {
		if err := json.Unmarshal(v, &p.Type); err != nil {
			fe.add("type", "must be a string")
		}
	}
	if v, ok := raw["amount"]; ok {
		if err := json.Unmarshal(v, &p.Amount); err != nil {
			fe.add("amount", "must be a number")
		}
	}
	if v, ok := raw["category"]; ok {
		if err := json.Unmarshal(v, &p.Category); err != nil {
			fe.add("category", "must be a string")
		}
	}
	if v, ok := raw["note"]; ok {
		if err := json.Unmarshal(v, &p.Note); err != nil {
			fe.add("note", "must be a string")
		}
	}

	if err := fe.toError(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// validate checks field constraints. With requireAll set (creation), date,
// type and amount must be present; otherwise (patch) only provided fields
// are checked. Either the whole payload passes or a full per-field report
// comes back.
func (p Payload) validate(requireAll bool) *ValidationError {
	fe := fieldErrors{}

	switch {
	case p.Date == nil:
		if requireAll {
			fe.add("date", "required")
		}
	default:
		if _, err := time.Parse(model.DateFormat, *p.Date); err != nil {
			fe.add("date", "must be a date in YYYY-MM-DD format")
		}
	}

	switch {
	case p.Type == nil:
		if requireAll {
			fe.add("type", "required")
		}
	default:
		if !p.Type.Valid() {
			fe.add("type", "must be one of ads, expense, revenue")
		}
	}

	switch {
	case p.Amount == nil:
		if requireAll {
			fe.add("amount", "required")
		}
	default:
		if p.Amount.IsNegative() {
			fe.add("amount", "must be greater than or equal to 0")
		}
	}

	return fe.toError()
}
