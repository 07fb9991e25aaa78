package users

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// Handler manages user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
	r.Post("/", h.createUser)
	r.Delete("/{id}", h.deleteUser)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.fail(w, err, "No se pudieron cargar los usuarios.")
		return
	}
	httpx.Data(w, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var input CreateUserInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err, "")
		return
	}
	user, err := h.service.CreateUser(r.Context(), input)
	if err != nil {
		h.fail(w, err, "Error interno al crear el usuario.")
		return
	}
	h.logger.Info("user created", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	httpx.Message(w, "Usuario creado con éxito.")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: se requiere el ID del usuario", httpx.ErrValidation), "")
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, err, "Error interno al eliminar el usuario.")
		return
	}
	h.logger.Info("user deleted", slog.Int64("user_id", id))
	httpx.Message(w, "Usuario eliminado con éxito.")
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error("user request failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}
