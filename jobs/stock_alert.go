package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/tiendapos/pos/internal/jobs"
	"github.com/tiendapos/pos/internal/products"
)

// StockReader reports SKUs at or below a stock threshold.
type StockReader interface {
	LowStock(ctx context.Context, skus []string, threshold int) ([]products.StockLevel, error)
}

// SaleEventJob consumes committed sale events and flags low stock.
type SaleEventJob struct {
	Stock     StockReader
	Threshold int
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewSaleEventJob initialises the sale event handler.
func NewSaleEventJob(stock StockReader, threshold int, logger *slog.Logger, metrics *jobmetrics.Metrics) *SaleEventJob {
	return &SaleEventJob{Stock: stock, Threshold: threshold, Logger: logger, Metrics: metrics}
}

// Handle processes sales:recorded and sales:annulled tasks.
func (j *SaleEventJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("sale event: handler not configured")
	}
	var payload SaleEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	tracker := j.Metrics.Track(t.Type())
	return tracker.End(j.process(ctx, t.Type(), payload))
}

func (j *SaleEventJob) process(ctx context.Context, taskType string, payload SaleEventPayload) error {
	logger := j.logger().With(
		slog.String("event_id", payload.EventID),
		slog.String("sale_id", payload.SaleID),
	)
	logger.Info("sale event received", slog.String("type", taskType), slog.Int("movements", len(payload.Movements)))

	// Annulments only add stock back.
	if taskType != TaskSaleRecorded || j.Stock == nil {
		return nil
	}
	low, err := j.Stock.LowStock(ctx, payload.SKUs(), j.Threshold)
	if err != nil {
		logger.Error("low stock scan failed", slog.Any("error", err))
		return err
	}
	for _, lvl := range low {
		logger.Warn("low stock",
			slog.String("sku", lvl.SKU),
			slog.String("nombre", lvl.Name),
			slog.Int("cantidad", lvl.Quantity),
			slog.Int("threshold", j.Threshold),
		)
	}
	j.Metrics.AddLowStock(len(low))
	return nil
}

func (j *SaleEventJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
