package taxhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxease/internal/domain/calculations"
	"taxease/internal/domain/reports"
	"taxease/internal/domain/tax"
	"taxease/internal/transport/http/api"
	"taxease/internal/transport/http/middleware"
	"taxease/internal/transport/http/shared"
)

type Handler struct {
	Service *calculations.Service
}

func NewHandler(service *calculations.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tax", func(r chi.Router) {
		r.Get("/brackets", h.HandleBrackets)
		r.Post("/preview", h.HandlePreview)
		r.With(middleware.RequireUser).Post("/calculate", h.HandleCalculate)
		r.With(middleware.RequireUser).Get("/report/{calculationID}", h.HandleReport)
	})
}

// calculateRequest accepts grossSalary, or salary as sent by older clients.
type calculateRequest struct {
	GrossSalary    json.RawMessage `json:"grossSalary"`
	Salary         json.RawMessage `json:"salary"`
	OtherIncome    json.RawMessage `json:"otherIncome"`
	EmploymentType string          `json:"employmentType"`
}

type calculationResponse struct {
	tax.Summary
	Tax      float64 `json:"tax"`
	IncomeID string  `json:"incomeId,omitempty"`
}

func newCalculationResponse(res tax.Result, incomeID string) calculationResponse {
	summary := res.Summary()
	return calculationResponse{Summary: summary, Tax: summary.TotalTax, IncomeID: incomeID}
}

// decodeInput writes the error response itself and reports false on failure.
func decodeInput(w http.ResponseWriter, r *http.Request) (tax.Input, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidPayload, "invalid request payload", reqID)
		return tax.Input{}, false
	}

	grossField, grossRaw := "grossSalary", payload.GrossSalary
	if len(bytes.TrimSpace(grossRaw)) == 0 {
		grossField, grossRaw = "salary", payload.Salary
	}

	v := shared.NewValidator()
	gross := v.Amount(grossField, grossRaw)
	other := v.Amount("otherIncome", payload.OtherIncome)
	if v.RejectAs(w, api.CodeInvalidNumericInput, "income amounts must be non-negative and within range", reqID) {
		return tax.Input{}, false
	}

	employmentType, err := tax.ParseEmploymentType(payload.EmploymentType)
	if err != nil {
		api.FailWithDetails(w, http.StatusBadRequest, api.CodeInvalidEmploymentType, "invalid employment type",
			map[string]any{"allowed": []string{tax.Salaried.String(), tax.SelfEmployed.String()}}, reqID)
		return tax.Input{}, false
	}

	return tax.Input{GrossSalary: gross, OtherIncome: other, EmploymentType: employmentType}, true
}

func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	calc, res, err := h.Service.Calculate(r.Context(), user.UserID, in)
	if errors.Is(err, tax.ErrInvalidEmploymentType) {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidEmploymentType, "invalid employment type", reqID)
		return
	}
	if err != nil {
		slog.Warn("calculate failed", "request_id", reqID, "user_id", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to calculate tax", reqID)
		return
	}

	api.Success(w, newCalculationResponse(res, calc.ID), reqID)
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	res, err := h.Service.Preview(in)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidEmploymentType, "invalid employment type", reqID)
		return
	}
	api.Success(w, newCalculationResponse(res, ""), reqID)
}

func (h *Handler) HandleBrackets(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Engine.Regime().Table(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "calculationID")

	data, err := h.Service.Report(r.Context(), user.UserID, id)
	switch {
	case err == nil:
	case errors.Is(err, calculations.ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "calculation not found", reqID)
		return
	case errors.Is(err, calculations.ErrForbidden):
		api.Fail(w, http.StatusForbidden, api.CodeForbidden, "unauthorized access", reqID)
		return
	default:
		slog.Warn("report lookup failed", "request_id", reqID, "calculation_id", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to generate report", reqID)
		return
	}

	var buf bytes.Buffer
	if err := reports.Render(&buf, data); err != nil {
		slog.Warn("report render failed", "request_id", reqID, "calculation_id", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to generate report", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=tax-report-"+data.CalculationID+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("report write failed", "request_id", reqID, "err", err)
	}
}
