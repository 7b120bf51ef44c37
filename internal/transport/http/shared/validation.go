package shared

import (
	"cmp"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"taxease/internal/domain/tax"
	"taxease/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues for a single request body. A nil
// Validator accepts everything.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	reason = strings.TrimSpace(reason)
	if v == nil || reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: strings.TrimSpace(field), Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Email only checks the shape local@domain; blank values are left to Required.
func (v *Validator) Email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	local, domain, ok := strings.Cut(value, "@")
	if !ok || local == "" || domain == "" || strings.ContainsAny(value, " \t") {
		v.Add(field, "must be a valid email address")
	}
}

func (v *Validator) MinLength(field, value string, min int, reason string) {
	if value != "" && len(value) < min {
		v.Add(field, reason)
	}
}

// Amount reads an optional money field. Absent, null and non-numeric values
// count as zero; negative and out of range values are recorded as issues.
func (v *Validator) Amount(field string, raw json.RawMessage) decimal.Decimal {
	amount, err := ParseAmount(raw)
	switch {
	case err == nil:
		return amount
	case errors.Is(err, tax.ErrAmountOutOfRange):
		v.Add(field, "is out of range")
	default:
		v.Add(field, "must not be negative")
	}
	return decimal.Zero
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns a sorted copy, by field then reason.
func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Reason, b.Reason))
	})
	return out
}

// Reject writes a validation_error response when there are issues.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	return v.RejectAs(w, api.CodeValidation, "payload validation failed", requestID)
}

// RejectAs is Reject with a caller chosen error code.
func (v *Validator) RejectAs(w http.ResponseWriter, code, message, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, code, message, map[string]any{"fields": v.Issues()}, requestID)
	return true
}
