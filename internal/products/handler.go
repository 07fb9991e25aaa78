package products

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// Handler exposes the product catalogue over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{sku}", h.Show)
	r.Put("/{sku}", h.Update)
	r.Delete("/{sku}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), ListFilters{Search: r.URL.Query().Get("search")})
	if err != nil {
		h.fail(w, err, "No se pudieron cargar los productos.")
		return
	}
	httpx.Data(w, products)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		h.fail(w, err, "No se pudo cargar el producto.")
		return
	}
	httpx.Data(w, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err, "")
		return
	}
	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.fail(w, err, "Error interno al añadir el producto.")
		return
	}
	h.logger.Info("product created", slog.String("sku", product.SKU))
	httpx.Message(w, "Producto añadido con éxito.")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err, "")
		return
	}
	originalSKU := chi.URLParam(r, "sku")
	if err := h.service.Update(r.Context(), originalSKU, input); err != nil {
		h.fail(w, err, "Error interno al actualizar el producto.")
		return
	}
	h.logger.Info("product updated", slog.String("sku", originalSKU), slog.String("new_sku", input.SKU))
	httpx.Message(w, "Producto actualizado con éxito.")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if err := h.service.Delete(r.Context(), sku); err != nil {
		h.fail(w, err, "Error interno al eliminar el producto.")
		return
	}
	h.logger.Info("product deleted", slog.String("sku", sku))
	httpx.Message(w, "Producto eliminado con éxito.")
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error("product request failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}
