package products

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

var errSKURequired = fmt.Errorf("%w: sku es obligatorio", httpx.ErrValidation)

func normalize(in ProductInput) ProductInput {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	return in
}

func (s *Service) validateInput(in ProductInput) error {
	if err := httpx.Validate(s.validate, in); err != nil {
		return err
	}
	prices := []struct {
		field string
		value *decimal.Decimal
	}{
		{"precioVenta", in.RetailPrice},
		{"precioCompra", in.CostPrice},
		{"precioMayoreo", in.WholesalePrice},
	}
	for _, p := range prices {
		if p.value != nil && p.value.IsNegative() {
			return fmt.Errorf("%w: %s no puede ser negativo", httpx.ErrValidation, p.field)
		}
	}
	return nil
}
