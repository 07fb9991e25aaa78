package sales

import "github.com/shopspring/decimal"

// RecordSaleRequest is the input of RecordSale. The total is trusted as sent.
type RecordSaleRequest struct {
	Customer *Customer        `json:"customer" validate:"required"`
	Items    []LineItem       `json:"items" validate:"dive"`
	Total    *decimal.Decimal `json:"total" validate:"required"`
}

// RecordSaleResult carries the allocated identifier.
type RecordSaleResult struct {
	SaleID string
}

// RecordSaleResponse is the success body of RecordSale.
type RecordSaleResponse struct {
	Status  string `json:"status"`
	SaleID  string `json:"saleId"`
	Message string `json:"message"`
}

// AnnulSaleRequest is the input of AnnulSale.
type AnnulSaleRequest struct {
	SaleID string `json:"saleId" validate:"required,max=64"`
}

// AnnulSaleResult confirms the annulled identifier.
type AnnulSaleResult struct {
	SaleID string
}
