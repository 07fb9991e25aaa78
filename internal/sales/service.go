package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tiendapos/pos/internal/platform/httpx"
	"github.com/tiendapos/pos/internal/platform/lock"
	"github.com/tiendapos/pos/internal/shared"
)

const (
	idempotencyModule = "sales"
	allocationLockKey = "lock:sales:allocate"

	// maxTxAttempts bounds how often a transaction aborted by a serialization
	// failure is replayed before the conflict reaches the caller.
	maxTxAttempts = 2
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListSales(ctx context.Context) ([]Sale, error)
	GetSale(ctx context.Context, id string) (Sale, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// IdempotencyPort guards RecordSale against client retries.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// Locker serialises identifier allocation across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
	Locker             Locker
	Events             EventPublisher
	Logger             *slog.Logger
	Clock              func() time.Time
}

// Service coordinates sale recording and annulment.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	idempotency IdempotencyPort
	locker      Locker
	events      EventPublisher
	allowNeg    bool
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, idem IdempotencyPort, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:        repo,
		audit:       audit,
		idempotency: idem,
		locker:      cfg.Locker,
		events:      cfg.Events,
		allowNeg:    cfg.AllowNegativeStock,
		validate:    httpx.NewValidator(),
		logger:      logger,
		now:         clock,
	}
}

// RecordSale allocates the next identifier, stores the sale and decrements
// stock for every line item in a single transaction.
func (s *Service) RecordSale(ctx context.Context, req RecordSaleRequest, idemKey string) (RecordSaleResult, error) {
	if err := httpx.Validate(s.validate, req); err != nil {
		return RecordSaleResult{}, err
	}
	idemKey = strings.TrimSpace(idemKey)
	insertedKey := false
	if idemKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idemKey, idempotencyModule); err != nil {
			return RecordSaleResult{}, err
		}
		insertedKey = true
	}

	release, err := s.acquireAllocationLock(ctx)
	if err != nil {
		s.forgetKey(ctx, insertedKey, idemKey)
		return RecordSaleResult{}, err
	}
	if release != nil {
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("release sale allocation lock", slog.Any("error", err))
			}
		}()
	}

	sale := Sale{
		SoldAt:   s.now().UTC(),
		Customer: *req.Customer,
		Total:    *req.Total,
		Items:    req.Items,
		Status:   StatusActive,
	}
	var movements []StockMovement
	err = s.inTx(ctx, "record", func(ctx context.Context, tx TxRepository) error {
		movements = movements[:0]
		last, found, err := tx.LatestSaleID(ctx)
		if err != nil {
			return fmt.Errorf("read latest sale id: %w", err)
		}
		sale.ID = NextSaleID(last, found)
		if err := tx.InsertSale(ctx, sale); err != nil {
			return err
		}
		for _, item := range sale.Items {
			qty, err := tx.AdjustStock(ctx, item.SKU, -item.Quantity)
			if err != nil {
				return err
			}
			if !s.allowNeg && qty < 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, item.SKU)
			}
			movements = append(movements, StockMovement{SKU: item.SKU, Delta: -item.Quantity, Quantity: qty})
		}
		return nil
	})
	if err != nil {
		s.forgetKey(ctx, insertedKey, idemKey)
		return RecordSaleResult{}, err
	}

	s.recordAudit(ctx, "sale.recorded", sale.ID, map[string]any{
		"total": sale.Total.String(),
		"items": len(sale.Items),
	})
	if s.events != nil {
		evt := SaleRecordedEvent{
			SaleID:     sale.ID,
			SoldAt:     sale.SoldAt,
			Total:      sale.Total.String(),
			Movements:  movements,
			OccurredAt: s.now().UTC(),
		}
		if err := s.events.PublishSaleRecorded(ctx, evt); err != nil {
			s.logger.Warn("publish sale recorded", slog.String("sale_id", sale.ID), slog.Any("error", err))
		}
	}
	return RecordSaleResult{SaleID: sale.ID}, nil
}

// AnnulSale restores the stock of every line item and marks the sale annulled.
// A sale that is already annulled is rejected without touching stock. Line
// items whose product no longer exists are skipped with a warning.
func (s *Service) AnnulSale(ctx context.Context, req AnnulSaleRequest) (AnnulSaleResult, error) {
	req.SaleID = strings.TrimSpace(req.SaleID)
	if err := httpx.Validate(s.validate, req); err != nil {
		return AnnulSaleResult{}, err
	}

	var movements []StockMovement
	err := s.inTx(ctx, "annul", func(ctx context.Context, tx TxRepository) error {
		movements = movements[:0]
		sale, err := tx.GetSaleForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if sale.Status == StatusAnnulled {
			return fmt.Errorf("%w: %s", ErrAlreadyAnnulled, sale.ID)
		}
		for _, item := range sale.Items {
			qty, err := tx.AdjustStock(ctx, item.SKU, item.Quantity)
			if errors.Is(err, ErrProductNotFound) {
				// The product was deleted or renamed after the sale; there is
				// no stock row left to restore.
				s.logger.Warn("annul sale: product missing, stock not restored",
					slog.String("sale_id", sale.ID), slog.String("sku", item.SKU), slog.Int("quantity", item.Quantity))
				continue
			}
			if err != nil {
				return err
			}
			movements = append(movements, StockMovement{SKU: item.SKU, Delta: item.Quantity, Quantity: qty})
		}
		return tx.UpdateSaleStatus(ctx, sale.ID, StatusAnnulled)
	})
	if err != nil {
		return AnnulSaleResult{}, err
	}

	s.recordAudit(ctx, "sale.annulled", req.SaleID, map[string]any{"items": len(movements)})
	if s.events != nil {
		evt := SaleAnnulledEvent{SaleID: req.SaleID, Movements: movements, OccurredAt: s.now().UTC()}
		if err := s.events.PublishSaleAnnulled(ctx, evt); err != nil {
			s.logger.Warn("publish sale annulled", slog.String("sale_id", req.SaleID), slog.Any("error", err))
		}
	}
	return AnnulSaleResult{SaleID: req.SaleID}, nil
}

// ListSales returns the sale history, newest first.
func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []Sale{}
	}
	return sales, nil
}

// GetSale returns a single sale.
func (s *Service) GetSale(ctx context.Context, id string) (Sale, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Sale{}, fmt.Errorf("%w: se requiere el identificador de la venta", httpx.ErrValidation)
	}
	return s.repo.GetSale(ctx, id)
}

// inTx runs fn in a repository transaction and replays it once when the
// database aborted it with a serialization failure. fn must reset any state it
// accumulates because it may run more than once.
func (s *Service) inTx(ctx context.Context, op string, fn func(context.Context, TxRepository) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.repo.WithTx(ctx, fn)
		if !errors.Is(err, ErrConcurrentUpdate) || ctx.Err() != nil {
			return err
		}
		s.logger.Info("sale transaction aborted by concurrent update",
			slog.String("op", op), slog.Int("attempt", attempt))
	}
	return err
}

// acquireAllocationLock returns a nil release when no locker is configured or
// Redis is unreachable; the unique key on sales.id still rejects duplicates.
func (s *Service) acquireAllocationLock(ctx context.Context) (lock.Release, error) {
	if s.locker == nil {
		return nil, nil
	}
	release, err := s.locker.Acquire(ctx, allocationLockKey)
	switch {
	case err == nil:
		return release, nil
	case errors.Is(err, lock.ErrNotObtained):
		return nil, fmt.Errorf("%w: asignación en curso", ErrSaleIDConflict)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		s.logger.Warn("sale allocation lock unavailable, continuing unlocked", slog.Any("error", err))
		return nil, nil
	}
}

func (s *Service) forgetKey(ctx context.Context, inserted bool, key string) {
	if !inserted {
		return
	}
	if err := s.idempotency.Delete(context.WithoutCancel(ctx), key, idempotencyModule); err != nil {
		s.logger.Warn("delete idempotency key", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) recordAudit(ctx context.Context, action, saleID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditLog{Action: action, Entity: "sale", EntityID: saleID, Meta: meta, At: s.now().UTC()}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit sale", slog.String("action", action), slog.String("sale_id", saleID), slog.Any("error", err))
	}
}
