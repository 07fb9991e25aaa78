package sales

import (
	"context"
	"time"
)

// StockMovement is the net change a sale applied to one SKU.
type StockMovement struct {
	SKU      string `json:"sku"`
	Delta    int    `json:"delta"`
	Quantity int    `json:"quantity"`
}

// SaleRecordedEvent is emitted once a sale has committed.
type SaleRecordedEvent struct {
	SaleID     string          `json:"saleId"`
	SoldAt     time.Time       `json:"soldAt"`
	Total      string          `json:"total"`
	Movements  []StockMovement `json:"movements"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// SaleAnnulledEvent is emitted once an annulment has committed.
type SaleAnnulledEvent struct {
	SaleID     string          `json:"saleId"`
	Movements  []StockMovement `json:"movements"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher forwards committed sale events to background consumers.
type EventPublisher interface {
	PublishSaleRecorded(ctx context.Context, evt SaleRecordedEvent) error
	PublishSaleAnnulled(ctx context.Context, evt SaleAnnulledEvent) error
}
