package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/tiendapos/pos/internal/sales"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSaleRecorded fires after a sale commits.
	TaskSaleRecorded = "sales:recorded"
	// TaskSaleAnnulled fires after an annulment commits.
	TaskSaleAnnulled = "sales:annulled"
	// TaskIdempotencyCleanup purges expired idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// SaleEventPayload is the queued form of a committed sale event.
type SaleEventPayload struct {
	EventID    string                `json:"event_id"`
	SaleID     string                `json:"sale_id"`
	Total      string                `json:"total,omitempty"`
	Movements  []sales.StockMovement `json:"movements"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// SKUs lists the SKUs touched by the event.
func (p SaleEventPayload) SKUs() []string {
	skus := make([]string, 0, len(p.Movements))
	for _, m := range p.Movements {
		skus = append(skus, m.SKU)
	}
	return skus
}

// IdempotencyCleanupPayload carries scheduling metadata.
type IdempotencyCleanupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSaleRecordedTask wraps evt into a queue task with a fresh event id.
func NewSaleRecordedTask(evt sales.SaleRecordedEvent) (*asynq.Task, error) {
	return newSaleTask(TaskSaleRecorded, SaleEventPayload{
		EventID:    uuid.NewString(),
		SaleID:     evt.SaleID,
		Total:      evt.Total,
		Movements:  evt.Movements,
		OccurredAt: evt.OccurredAt,
	})
}

// NewSaleAnnulledTask wraps evt into a queue task with a fresh event id.
func NewSaleAnnulledTask(evt sales.SaleAnnulledEvent) (*asynq.Task, error) {
	return newSaleTask(TaskSaleAnnulled, SaleEventPayload{
		EventID:    uuid.NewString(),
		SaleID:     evt.SaleID,
		Movements:  evt.Movements,
		OccurredAt: evt.OccurredAt,
	})
}

func newSaleTask(taskType string, payload SaleEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, body, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// NewIdempotencyCleanupTask constructs the retention task.
func NewIdempotencyCleanupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(IdempotencyCleanupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, body, asynq.Queue(QueueDefault)), nil
}
