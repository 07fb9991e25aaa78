package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/pos/internal/platform/httpx"
	"github.com/tiendapos/pos/internal/platform/lock"
	"github.com/tiendapos/pos/internal/shared"
)

// memoryRepo applies a transaction to a copy of its state and swaps the copy
// in only when the callback succeeds. Each queued failure aborts one
// transaction before the callback runs.
type memoryRepo struct {
	mu       sync.Mutex
	stock    map[string]int
	sales    map[string]Sale
	txCalls  int
	failures []error
}

type memoryTx struct {
	stock map[string]int
	sales map[string]Sale
}

func newMemoryRepo(stock map[string]int) *memoryRepo {
	if stock == nil {
		stock = map[string]int{}
	}
	return &memoryRepo{stock: stock, sales: map[string]Sale{}}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txCalls++
	if len(r.failures) > 0 {
		err := r.failures[0]
		r.failures = r.failures[1:]
		return err
	}
	tx := &memoryTx{stock: make(map[string]int, len(r.stock)), sales: make(map[string]Sale, len(r.sales))}
	for k, v := range r.stock {
		tx.stock[k] = v
	}
	for k, v := range r.sales {
		tx.sales[k] = v
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.stock = tx.stock
	r.sales = tx.sales
	return nil
}

func (r *memoryRepo) ListSales(ctx context.Context) ([]Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	return out, nil
}

func (r *memoryRepo) GetSale(ctx context.Context, id string) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return sale, nil
}

func (tx *memoryTx) LatestSaleID(ctx context.Context) (string, bool, error) {
	var latest Sale
	found := false
	for _, s := range tx.sales {
		if !found || newerSale(s, latest) {
			latest = s
			found = true
		}
	}
	return latest.ID, found, nil
}

func newerSale(a, b Sale) bool {
	if !a.SoldAt.Equal(b.SoldAt) {
		return a.SoldAt.After(b.SoldAt)
	}
	if len(a.ID) != len(b.ID) {
		return len(a.ID) > len(b.ID)
	}
	return a.ID > b.ID
}

func (tx *memoryTx) InsertSale(ctx context.Context, sale Sale) error {
	if _, exists := tx.sales[sale.ID]; exists {
		return fmt.Errorf("%w: %s", ErrSaleIDConflict, sale.ID)
	}
	tx.sales[sale.ID] = sale
	return nil
}

func (tx *memoryTx) AdjustStock(ctx context.Context, sku string, delta int) (int, error) {
	qty, ok := tx.stock[sku]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	qty += delta
	tx.stock[sku] = qty
	return qty, nil
}

func (tx *memoryTx) GetSaleForUpdate(ctx context.Context, id string) (Sale, error) {
	sale, ok := tx.sales[id]
	if !ok {
		return Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return sale, nil
}

func (tx *memoryTx) UpdateSaleStatus(ctx context.Context, id string, status Status) error {
	sale, ok := tx.sales[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	sale.Status = status
	tx.sales[id] = sale
	return nil
}

type recordingEvents struct {
	recorded []SaleRecordedEvent
	annulled []SaleAnnulledEvent
	err      error
}

func (e *recordingEvents) PublishSaleRecorded(ctx context.Context, evt SaleRecordedEvent) error {
	e.recorded = append(e.recorded, evt)
	return e.err
}

func (e *recordingEvents) PublishSaleAnnulled(ctx context.Context, evt SaleAnnulledEvent) error {
	e.annulled = append(e.annulled, evt)
	return e.err
}

type recordingAudit struct {
	logs []shared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type memoryIdempotency struct {
	keys map[string]bool
}

func (m *memoryIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[module+":"+key] {
		return shared.ErrIdempotencyConflict
	}
	m.keys[module+":"+key] = true
	return nil
}

func (m *memoryIdempotency) Delete(ctx context.Context, key, module string) error {
	delete(m.keys, module+":"+key)
	return nil
}

type stubLocker struct {
	err      error
	acquired int
	released int
}

func (l *stubLocker) Acquire(ctx context.Context, key string) (lock.Release, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newTestService(repo *memoryRepo, cfg ServiceConfig) *Service {
	if cfg.Clock == nil {
		cfg.Clock = fixedClock()
	}
	return NewService(repo, nil, nil, cfg)
}

func saleRequest(total string, items ...LineItem) RecordSaleRequest {
	amount := decimal.RequireFromString(total)
	return RecordSaleRequest{
		Customer: &Customer{Name: "Juan Perez", Contact: "70000000", TaxID: "1234567"},
		Items:    items,
		Total:    &amount,
	}
}

func TestRecordSaleScenarioAllocatesAS1ThenAS2(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10, "X2": 4, "X3": 7})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	res, err := svc.RecordSale(ctx, saleRequest("50", LineItem{SKU: "X1", Quantity: 3}, LineItem{SKU: "X2", Quantity: 1}), "")
	require.NoError(t, err)
	require.Equal(t, "AS1", res.SaleID)
	require.Equal(t, 7, repo.stock["X1"])
	require.Equal(t, 3, repo.stock["X2"])
	require.Equal(t, 7, repo.stock["X3"], "untouched product must keep its stock")

	res, err = svc.RecordSale(ctx, saleRequest("0"), "")
	require.NoError(t, err)
	require.Equal(t, "AS2", res.SaleID)

	sale := repo.sales["AS1"]
	require.Equal(t, StatusActive, sale.Status)
	require.True(t, decimal.NewFromInt(50).Equal(sale.Total))
	require.Len(t, sale.Items, 2)
}

func TestRecordSaleContinuesFromHighestNumber(t *testing.T) {
	repo := newMemoryRepo(nil)
	soldAt := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	repo.sales["AS9"] = Sale{ID: "AS9", SoldAt: soldAt, Status: StatusActive}
	repo.sales["AS10"] = Sale{ID: "AS10", SoldAt: soldAt, Status: StatusActive}
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	res, err := svc.RecordSale(context.Background(), saleRequest("1"), "")
	require.NoError(t, err)
	require.Equal(t, "AS11", res.SaleID)
}

func TestRecordSaleStockDeltasMatchRequestedQuantities(t *testing.T) {
	initial := map[string]int{"A": 20, "B": 20, "C": 20, "D": 20}
	repo := newMemoryRepo(map[string]int{"A": 20, "B": 20, "C": 20, "D": 20})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	items := []LineItem{{SKU: "A", Quantity: 2}, {SKU: "B", Quantity: 5}, {SKU: "A", Quantity: 1}, {SKU: "C", Quantity: 0}}
	_, err := svc.RecordSale(context.Background(), saleRequest("99.90", items...), "")
	require.NoError(t, err)

	requested, decremented := 0, 0
	for _, item := range items {
		requested += item.Quantity
	}
	for sku, qty := range repo.stock {
		decremented += initial[sku] - qty
	}
	require.Equal(t, requested, decremented)
	require.Equal(t, 17, repo.stock["A"])
	require.Equal(t, 20, repo.stock["D"])
}

func TestRecordSaleUnknownSKURollsBack(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	_, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 3}, LineItem{SKU: "NOPE", Quantity: 1}), "")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Equal(t, 10, repo.stock["X1"])
	require.Empty(t, repo.sales)
}

func TestRecordSaleRejectsInvalidInputBeforeTransaction(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	req := saleRequest("10", LineItem{SKU: "X1", Quantity: -1})
	_, err := svc.RecordSale(ctx, req, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	req = saleRequest("10", LineItem{SKU: "", Quantity: 1})
	_, err = svc.RecordSale(ctx, req, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	req = saleRequest("10")
	req.Customer = nil
	_, err = svc.RecordSale(ctx, req, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	req = saleRequest("10")
	req.Total = nil
	_, err = svc.RecordSale(ctx, req, "")
	require.ErrorIs(t, err, httpx.ErrValidation)

	require.Zero(t, repo.txCalls)
}

func TestRecordSaleNegativeStockIsPermittedByDefault(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 1})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	_, err := svc.RecordSale(context.Background(), saleRequest("30", LineItem{SKU: "X1", Quantity: 3}), "")
	require.NoError(t, err)
	require.Equal(t, -2, repo.stock["X1"])
}

func TestRecordSaleInsufficientStockGuard(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 5, "X2": 1})
	svc := NewService(repo, nil, nil, ServiceConfig{AllowNegativeStock: false, Clock: fixedClock()})

	_, err := svc.RecordSale(context.Background(), saleRequest("30", LineItem{SKU: "X1", Quantity: 2}, LineItem{SKU: "X2", Quantity: 3}), "")
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Equal(t, 5, repo.stock["X1"])
	require.Equal(t, 1, repo.stock["X2"])
	require.Empty(t, repo.sales)

	res, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X2", Quantity: 1}), "")
	require.NoError(t, err)
	require.Equal(t, "AS1", res.SaleID)
	require.Equal(t, 0, repo.stock["X2"])
}

func TestRecordSaleIdempotencyKey(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	idem := &memoryIdempotency{}
	svc := NewService(repo, nil, idem, ServiceConfig{AllowNegativeStock: true, Clock: fixedClock()})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "key-1")
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "key-1")
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.Equal(t, 9, repo.stock["X1"])
	require.Len(t, repo.sales, 1)
}

func TestRecordSaleFailureReleasesIdempotencyKey(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	idem := &memoryIdempotency{}
	svc := NewService(repo, nil, idem, ServiceConfig{AllowNegativeStock: true, Clock: fixedClock()})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "MISSING", Quantity: 1}), "key-2")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Empty(t, idem.keys)

	_, err = svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "key-2")
	require.NoError(t, err)
}

func TestRecordSaleHoldsAllocationLock(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	locker := &stubLocker{}
	svc := NewService(repo, nil, nil, ServiceConfig{AllowNegativeStock: true, Locker: locker, Clock: fixedClock()})

	_, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.NoError(t, err)
	assert.Equal(t, 1, locker.acquired)
	assert.Equal(t, 1, locker.released)
}

func TestRecordSaleLockBusyIsConflict(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	locker := &stubLocker{err: fmt.Errorf("%w: key", lock.ErrNotObtained)}
	svc := NewService(repo, nil, nil, ServiceConfig{AllowNegativeStock: true, Locker: locker, Clock: fixedClock()})

	_, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.ErrorIs(t, err, ErrSaleIDConflict)
	require.Zero(t, repo.txCalls)
}

func TestRecordSaleProceedsWhenLockBackendFails(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	locker := &stubLocker{err: errors.New("dial tcp: connection refused")}
	svc := NewService(repo, nil, nil, ServiceConfig{AllowNegativeStock: true, Locker: locker, Clock: fixedClock()})

	res, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.NoError(t, err)
	require.Equal(t, "AS1", res.SaleID)
}

func TestRecordSaleRetriesOnceAfterConcurrentUpdate(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	repo.failures = []error{ErrConcurrentUpdate}
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	res, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.NoError(t, err)
	require.Equal(t, "AS1", res.SaleID)
	require.Equal(t, 2, repo.txCalls)
	require.Equal(t, 9, repo.stock["X1"])
}

func TestRecordSalePropagatesRepeatedConcurrentUpdate(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	repo.failures = []error{ErrConcurrentUpdate, ErrConcurrentUpdate, ErrConcurrentUpdate}
	idem := &memoryIdempotency{}
	svc := NewService(repo, nil, idem, ServiceConfig{AllowNegativeStock: true, Clock: fixedClock()})

	_, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "key-3")
	require.ErrorIs(t, err, ErrConcurrentUpdate)
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Equal(t, maxTxAttempts, repo.txCalls)
	require.Equal(t, 10, repo.stock["X1"])
	require.Empty(t, idem.keys)
}

func TestRecordSaleDoesNotRetryOtherFailures(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	repo.failures = []error{errors.New("connection reset by peer")}
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	_, err := svc.RecordSale(context.Background(), saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.Error(t, err)
	require.Equal(t, 1, repo.txCalls)
}

func TestRecordSalePublishesEventAndAudit(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	events := &recordingEvents{err: errors.New("queue down")}
	audit := &recordingAudit{}
	svc := NewService(repo, audit, nil, ServiceConfig{AllowNegativeStock: true, Events: events, Clock: fixedClock()})

	res, err := svc.RecordSale(context.Background(), saleRequest("12.50", LineItem{SKU: "X1", Quantity: 4}), "")
	require.NoError(t, err, "publishing failures must not fail a committed sale")

	require.Len(t, events.recorded, 1)
	evt := events.recorded[0]
	require.Equal(t, res.SaleID, evt.SaleID)
	require.Equal(t, "12.5", evt.Total)
	require.Equal(t, []StockMovement{{SKU: "X1", Delta: -4, Quantity: 6}}, evt.Movements)

	require.Len(t, audit.logs, 1)
	require.Equal(t, "sale.recorded", audit.logs[0].Action)
	require.Equal(t, "AS1", audit.logs[0].EntityID)
}

func TestAnnulSaleScenarioRestoresStock(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10, "X2": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	res, err := svc.RecordSale(ctx, saleRequest("30", LineItem{SKU: "X1", Quantity: 3}), "")
	require.NoError(t, err)
	require.Equal(t, "AS1", res.SaleID)
	require.Equal(t, 7, repo.stock["X1"])

	annul, err := svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS1"})
	require.NoError(t, err)
	require.Equal(t, "AS1", annul.SaleID)
	require.Equal(t, 10, repo.stock["X1"])
	require.Equal(t, 10, repo.stock["X2"])
	require.Equal(t, StatusAnnulled, repo.sales["AS1"].Status)
}

func TestAnnulSaleLeavesOtherSalesUntouched(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.NoError(t, err)
	_, err = svc.RecordSale(ctx, saleRequest("20", LineItem{SKU: "X1", Quantity: 2}), "")
	require.NoError(t, err)

	_, err = svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS2"})
	require.NoError(t, err)
	require.Equal(t, StatusActive, repo.sales["AS1"].Status)
	require.Equal(t, StatusAnnulled, repo.sales["AS2"].Status)
	require.Equal(t, 9, repo.stock["X1"])
}

func TestAnnulSaleNotFoundChangesNothing(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.NoError(t, err)

	_, err = svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS404"})
	require.ErrorIs(t, err, ErrSaleNotFound)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Equal(t, 9, repo.stock["X1"])
	require.Equal(t, StatusActive, repo.sales["AS1"].Status)
}

// Annulling twice was silently accepted by the first deployment and restored
// stock a second time. The second call must now be rejected as a no-op.
func TestAnnulSaleTwiceIsRejectedWithoutSideEffects(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	events := &recordingEvents{}
	svc := NewService(repo, nil, nil, ServiceConfig{AllowNegativeStock: true, Events: events, Clock: fixedClock()})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("30", LineItem{SKU: "X1", Quantity: 3}), "")
	require.NoError(t, err)
	_, err = svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS1"})
	require.NoError(t, err)

	_, err = svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS1"})
	require.ErrorIs(t, err, ErrAlreadyAnnulled)
	require.ErrorIs(t, err, httpx.ErrConflict)
	require.Equal(t, 10, repo.stock["X1"])
	require.Equal(t, StatusAnnulled, repo.sales["AS1"].Status)
	require.Len(t, events.annulled, 1)
}

// A product deleted after the sale must not block the annulment; the other
// line items are still restored.
func TestAnnulSaleSkipsVanishedProduct(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10, "X2": 10})
	events := &recordingEvents{}
	svc := NewService(repo, nil, nil, ServiceConfig{AllowNegativeStock: true, Events: events, Clock: fixedClock()})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("30", LineItem{SKU: "X1", Quantity: 1}, LineItem{SKU: "X2", Quantity: 1}), "")
	require.NoError(t, err)
	delete(repo.stock, "X2")

	res, err := svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS1"})
	require.NoError(t, err)
	require.Equal(t, "AS1", res.SaleID)
	require.Equal(t, 10, repo.stock["X1"])
	_, recreated := repo.stock["X2"]
	require.False(t, recreated)
	require.Equal(t, StatusAnnulled, repo.sales["AS1"].Status)

	require.Len(t, events.annulled, 1)
	require.Equal(t, []StockMovement{{SKU: "X1", Delta: 1, Quantity: 10}}, events.annulled[0].Movements)
}

func TestAnnulSaleRetriesOnceAfterConcurrentUpdate(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, saleRequest("30", LineItem{SKU: "X1", Quantity: 3}), "")
	require.NoError(t, err)
	repo.failures = []error{ErrConcurrentUpdate}

	_, err = svc.AnnulSale(ctx, AnnulSaleRequest{SaleID: "AS1"})
	require.NoError(t, err)
	require.Equal(t, 3, repo.txCalls)
	require.Equal(t, 10, repo.stock["X1"])
	require.Equal(t, StatusAnnulled, repo.sales["AS1"].Status)
}

func TestAnnulSaleRequiresIdentifier(t *testing.T) {
	repo := newMemoryRepo(nil)
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})

	_, err := svc.AnnulSale(context.Background(), AnnulSaleRequest{SaleID: "  "})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Zero(t, repo.txCalls)
}

func TestListAndGetSales(t *testing.T) {
	repo := newMemoryRepo(map[string]int{"X1": 10})
	svc := newTestService(repo, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	empty, err := svc.ListSales(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, err = svc.RecordSale(ctx, saleRequest("10", LineItem{SKU: "X1", Quantity: 1}), "")
	require.NoError(t, err)

	list, err := svc.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	sale, err := svc.GetSale(ctx, "AS1")
	require.NoError(t, err)
	require.Equal(t, "Juan Perez", sale.Customer.Name)

	_, err = svc.GetSale(ctx, "AS2")
	require.ErrorIs(t, err, ErrSaleNotFound)
}
