package sales

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

const (
	msgSaleRecorded   = "Venta registrada con éxito."
	msgSaleAnnulled   = "Venta %s anulada y stock restaurado."
	msgRecordFailed   = "Error interno al registrar la venta."
	msgAnnulFailed    = "Error interno al anular la venta."
	msgListFailed     = "Error interno al obtener las ventas."
	idempotencyHeader = "Idempotency-Key"
)

// Outcome labels reported to OutcomeRecorder.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// OutcomeRecorder counts sale and annulment results.
type OutcomeRecorder interface {
	ObserveSale(outcome string)
	ObserveAnnulment(outcome string)
}

// Handler exposes the sales JSON endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	outcomes OutcomeRecorder
}

// NewHandler builds Handler instance. outcomes may be nil.
func NewHandler(logger *slog.Logger, service *Service, outcomes OutcomeRecorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, outcomes: outcomes}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listSales)
	r.Post("/", h.recordSale)
	r.Post("/annul", h.annulSale)
	r.Get("/{id}", h.showSale)
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.observeSale(err)
		httpx.RespondError(w, err, msgRecordFailed)
		return
	}
	res, err := h.service.RecordSale(r.Context(), req, r.Header.Get(idempotencyHeader))
	h.observeSale(err)
	if err != nil {
		h.fail(w, r, err, msgRecordFailed)
		return
	}
	h.logger.Info("sale recorded", slog.String("sale_id", res.SaleID))
	httpx.JSON(w, http.StatusOK, RecordSaleResponse{
		Status:  httpx.StatusSuccess,
		SaleID:  res.SaleID,
		Message: msgSaleRecorded,
	})
}

func (h *Handler) annulSale(w http.ResponseWriter, r *http.Request) {
	var req AnnulSaleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.observeAnnulment(err)
		httpx.RespondError(w, err, msgAnnulFailed)
		return
	}
	res, err := h.service.AnnulSale(r.Context(), req)
	h.observeAnnulment(err)
	if err != nil {
		h.fail(w, r, err, msgAnnulFailed)
		return
	}
	h.logger.Info("sale annulled", slog.String("sale_id", res.SaleID))
	httpx.Message(w, fmt.Sprintf(msgSaleAnnulled, res.SaleID))
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSales(r.Context())
	if err != nil {
		h.fail(w, r, err, msgListFailed)
		return
	}
	httpx.Data(w, sales)
}

func (h *Handler) showSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, msgListFailed)
		return
	}
	httpx.Data(w, sale)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error("sales request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}

func (h *Handler) observeSale(err error) {
	if h.outcomes != nil {
		h.outcomes.ObserveSale(OutcomeFor(err))
	}
}

func (h *Handler) observeAnnulment(err error) {
	if h.outcomes != nil {
		h.outcomes.ObserveAnnulment(OutcomeFor(err))
	}
}

// OutcomeFor classifies err into an outcome label.
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, httpx.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, httpx.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, httpx.ErrConflict), errors.Is(err, httpx.ErrDuplicate):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
