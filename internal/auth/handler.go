package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tiendapos/pos/internal/platform/httpx"
	"github.com/tiendapos/pos/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Usuario y contraseña son requeridos.")
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Usuario y contraseña son requeridos.")
		return
	}

	profile, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		h.logger.Info("login succeeded", slog.String("username", profile.Username))
		httpx.JSON(w, http.StatusOK, LoginResponse{Status: httpx.StatusSuccess, User: profile})
	case errors.Is(err, shared.ErrInvalidCredentials):
		h.logger.Warn("login rejected", slog.String("username", req.Username))
		httpx.Fail(w, http.StatusUnauthorized, "Usuario o contraseña incorrectos.")
	case errors.Is(err, httpx.ErrValidation):
		httpx.Fail(w, http.StatusBadRequest, "Usuario y contraseña son requeridos.")
	default:
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error interno del servidor.")
	}
}
