package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// Status enumerates the sale lifecycle. The only transition is Activa -> Anulada.
type Status string

const (
	// StatusActive marks a recorded sale.
	StatusActive Status = "Activa"
	// StatusAnnulled marks a voided sale whose stock was restored.
	StatusAnnulled Status = "Anulada"
)

// Customer is the buyer descriptor copied onto the sale row.
type Customer struct {
	Name    string `json:"name" validate:"required,max=200"`
	Contact string `json:"contact" validate:"max=200"`
	TaxID   string `json:"id" validate:"max=50"`
}

// LineItem is a point-in-time snapshot of a sold product. It is serialised
// into the sale row and never edited afterwards.
type LineItem struct {
	SKU       string           `json:"SKU" validate:"required,max=64"`
	Quantity  int              `json:"cantidad" validate:"gte=0"`
	Name      string           `json:"nombre,omitempty" validate:"max=200"`
	UnitPrice *decimal.Decimal `json:"precio,omitempty"`
	Subtotal  *decimal.Decimal `json:"subtotal,omitempty"`
}

// Sale is the persisted sale record.
type Sale struct {
	ID       string          `json:"id"`
	SoldAt   time.Time       `json:"soldAt"`
	Customer Customer        `json:"customer"`
	Total    decimal.Decimal `json:"total"`
	Items    []LineItem      `json:"items"`
	Status   Status          `json:"status"`
}

// Domain errors. Each wraps an httpx sentinel so the HTTP edge can classify it.
var (
	// ErrSaleNotFound indicates the sale identifier does not exist.
	ErrSaleNotFound = fmt.Errorf("%w: venta no encontrada", httpx.ErrNotFound)
	// ErrProductNotFound indicates a line item references an unknown SKU.
	ErrProductNotFound = fmt.Errorf("%w: producto no encontrado", httpx.ErrNotFound)
	// ErrSaleIDConflict indicates the allocated identifier is already taken.
	ErrSaleIDConflict = fmt.Errorf("%w: el identificador de venta ya existe, reintente", httpx.ErrConflict)
	// ErrConcurrentUpdate indicates a concurrent transaction won the race.
	ErrConcurrentUpdate = fmt.Errorf("%w: actualización concurrente, reintente", httpx.ErrConflict)
	// ErrAlreadyAnnulled indicates the sale was annulled before.
	ErrAlreadyAnnulled = fmt.Errorf("%w: la venta ya está anulada", httpx.ErrConflict)
	// ErrInsufficientStock indicates a decrement would leave negative stock.
	ErrInsufficientStock = fmt.Errorf("%w: stock insuficiente", httpx.ErrConflict)
)
