package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxease/internal/transport/http/api"
)

func TestValidatorCollectsSortedIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", " ", "is required")
	v.Email("email", "no-at-sign")
	v.MinLength("password", "123", 6, "must be at least 6 characters")
	v.Add("email", "is required")

	issues := v.Issues()
	require.Len(t, issues, 4)
	assert.Equal(t, ValidationIssue{Field: "email", Reason: "is required"}, issues[0])
	assert.Equal(t, ValidationIssue{Field: "email", Reason: "must be a valid email address"}, issues[1])
	assert.Equal(t, "name", issues[2].Field)
	assert.Equal(t, "password", issues[3].Field)
}

func TestValidatorAcceptsGoodInput(t *testing.T) {
	v := NewValidator()
	v.Required("name", "Asha", "is required")
	v.Email("email", "asha@example.com")
	v.MinLength("password", "secret1", 6, "too short")
	assert.False(t, v.HasIssues())
	assert.False(t, v.Reject(httptest.NewRecorder(), "req"))
}

func TestRejectAsUsesCode(t *testing.T) {
	v := NewValidator()
	v.Add("grossSalary", "must not be negative")

	rec := httptest.NewRecorder()
	require.True(t, v.RejectAs(rec, api.CodeInvalidNumericInput, "invalid amount", "req-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, api.CodeInvalidNumericInput, env.Error.Code)
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/incomes/u1?limit=500&offset=-3", nil)
	page := ParsePagination(req, 20, 100)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 0, page.Offset)

	req = httptest.NewRequest(http.MethodGet, "/api/incomes/u1?limit=5&offset=10", nil)
	page = ParsePagination(req, 20, 100)
	assert.Equal(t, Pagination{Limit: 5, Offset: 10}, page)
}

func TestParsePaginationPages(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/incomes/u1?page=3&pageSize=10", nil)
	assert.Equal(t, Pagination{Limit: 10, Offset: 20}, ParsePagination(req, 20, 100))

	req = httptest.NewRequest(http.MethodGet, "/api/incomes/u1?page=0&pageSize=abc", nil)
	assert.Equal(t, Pagination{Limit: 20, Offset: 0}, ParsePagination(req, 20, 100))

	req = httptest.NewRequest(http.MethodGet, "/api/incomes/u1?page=2&offset=5&limit=10", nil)
	assert.Equal(t, Pagination{Limit: 10, Offset: 5}, ParsePagination(req, 20, 100))
}

func TestEmailShape(t *testing.T) {
	for _, bad := range []string{"@example.com", "asha@", "asha example@x.com", "plain"} {
		v := NewValidator()
		v.Email("email", bad)
		assert.True(t, v.HasIssues(), bad)
	}
	var nilValidator *Validator
	nilValidator.Add("email", "ignored")
	assert.False(t, nilValidator.HasIssues())
}
