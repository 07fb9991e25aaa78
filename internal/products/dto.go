package products

import "github.com/shopspring/decimal"

// ProductInput is the body accepted by create and update.
type ProductInput struct {
	SKU            string           `json:"sku" validate:"required,max=64"`
	Name           string           `json:"nombre" validate:"required,max=200"`
	RetailPrice    *decimal.Decimal `json:"precioVenta" validate:"required"`
	CostPrice      *decimal.Decimal `json:"precioCompra"`
	WholesalePrice *decimal.Decimal `json:"precioMayoreo"`
	Quantity       int              `json:"cantidad" validate:"gte=0"`
	Barcode        string           `json:"codigoBarras" validate:"max=64"`
	PhotoURL       string           `json:"urlFoto1" validate:"omitempty,url,max=500"`
}

// ListFilters narrows the product listing.
type ListFilters struct {
	Search string
}

func (in ProductInput) toProduct() Product {
	p := Product{
		SKU:      in.SKU,
		Name:     in.Name,
		Quantity: in.Quantity,
		Barcode:  in.Barcode,
		PhotoURL: in.PhotoURL,
	}
	if in.RetailPrice != nil {
		p.RetailPrice = *in.RetailPrice
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.WholesalePrice != nil {
		p.WholesalePrice = *in.WholesalePrice
	}
	return p
}
