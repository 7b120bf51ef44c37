package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxease/internal/domain/auth"
	"taxease/internal/transport/http/api"
	"taxease/internal/transport/http/middleware"
	"taxease/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.With(middleware.RequireUser).Post("/verify", h.HandleVerify)
		r.With(middleware.RequireUser).Get("/user/{id}", h.HandleGetUser)
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidPayload, "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("email", payload.Email, "is required")
	v.Email("email", payload.Email)
	v.Required("password", payload.Password, "is required")
	v.MinLength("password", payload.Password, auth.MinPasswordLength, "must be at least 6 characters")
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Service.Register(r.Context(), auth.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUserExists):
		api.Fail(w, http.StatusConflict, api.CodeUserExists, "user already exists", reqID)
		return
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		api.Fail(w, http.StatusBadRequest, api.CodeValidation, err.Error(), reqID)
		return
	default:
		slog.Warn("register failed", "request_id", reqID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to register user", reqID)
		return
	}

	api.Created(w, map[string]any{"message": "User registered successfully", "user": user}, reqID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidPayload, "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Email("email", payload.Email)
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, reqID) {
		return
	}

	token, user, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, api.CodeInvalidCredentials, "invalid credentials", reqID)
		return
	}
	if err != nil {
		slog.Warn("login failed", "request_id", reqID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to log in", reqID)
		return
	}

	api.Success(w, loginResponse{Token: token, User: user}, reqID)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, map[string]string{"message": "Token is valid", "userId": user.UserID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	caller, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "id")
	if id != caller.UserID {
		api.Fail(w, http.StatusForbidden, api.CodeForbidden, "unauthorized access", reqID)
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "user not found", reqID)
		return
	}
	if err != nil {
		slog.Warn("user lookup failed", "request_id", reqID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to load user", reqID)
		return
	}
	api.Success(w, user, reqID)
}
