package incomeshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxease/internal/domain/calculations"
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
	r.With(middleware.RequireUser).Get("/incomes/{userID}", h.HandleHistory)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")
	if userID != caller.UserID {
		api.Fail(w, http.StatusForbidden, api.CodeForbidden, "unauthorized access", reqID)
		return
	}

	page := shared.ParsePagination(r, calculations.DefaultPageSize, calculations.MaxPageSize)
	history, err := h.Service.History(r.Context(), userID, calculations.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		slog.Warn("history lookup failed", "request_id", reqID, "user_id", userID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to fetch income history", reqID)
		return
	}
	api.Success(w, history, reqID)
}
