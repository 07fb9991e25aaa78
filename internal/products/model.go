package products

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// Product represents a sellable item identified by its SKU.
type Product struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"nombre"`
	RetailPrice    decimal.Decimal `json:"precioVenta"`
	CostPrice      decimal.Decimal `json:"precioCompra"`
	WholesalePrice decimal.Decimal `json:"precioMayoreo"`
	Quantity       int             `json:"cantidad"`
	Barcode        string          `json:"codigoBarras"`
	PhotoURL       string          `json:"urlFoto1"`
}

// StockLevel is the quantity on hand of a single SKU.
type StockLevel struct {
	SKU      string `json:"sku"`
	Name     string `json:"nombre"`
	Quantity int    `json:"cantidad"`
}

var (
	// ErrProductNotFound indicates the SKU does not exist.
	ErrProductNotFound = fmt.Errorf("%w: producto no encontrado", httpx.ErrNotFound)
	// ErrDuplicateSKU indicates another product already uses the SKU.
	ErrDuplicateSKU = fmt.Errorf("%w: el SKU ya existe", httpx.ErrDuplicate)
)
