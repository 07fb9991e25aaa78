package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tiendapos/pos/internal/platform/db"
)

// TxRepository exposes the statements RecordSale and AnnulSale run inside one transaction.
type TxRepository interface {
	LatestSaleID(ctx context.Context) (string, bool, error)
	InsertSale(ctx context.Context, sale Sale) error
	AdjustStock(ctx context.Context, sku string, delta int) (int, error)
	GetSaleForUpdate(ctx context.Context, id string) (Sale, error)
	UpdateSaleStatus(ctx context.Context, id string, status Status) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository persists sales in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	db   dbtx
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

type txRepo struct {
	db dbtx
}

// WithTx executes the callback inside a repeatable-read transaction.
// Lost update races are reported as ErrConcurrentUpdate.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{db: tx})
	})
	if err != nil && db.IsSerializationFailure(err) {
		// The driver text names internal relations; callers only need the class.
		return ErrConcurrentUpdate
	}
	return err
}

const saleColumns = `id, fecha_venta, COALESCE(nombre_cliente, ''), COALESCE(contacto, ''), COALESCE(nit_ci, ''),
	COALESCE(total_venta, 0)::text, COALESCE(productos_vendidos, '[]'::jsonb)::text, COALESCE(estado, 'Activa')`

// ListSales returns the sale history, newest first.
func (r *Repository) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := r.db.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY fecha_venta DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// GetSale fetches one sale by identifier.
func (r *Repository) GetSale(ctx context.Context, id string) (Sale, error) {
	sale, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return sale, err
}

func (r *txRepo) LatestSaleID(ctx context.Context) (string, bool, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT id FROM sales ORDER BY fecha_venta DESC, length(id) DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *txRepo) InsertSale(ctx context.Context, sale Sale) error {
	items := sale.Items
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode line items: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO sales (id, fecha_venta, nombre_cliente, contacto, nit_ci, total_venta, productos_vendidos, estado)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::jsonb, $8)
	`, sale.ID, sale.SoldAt, sale.Customer.Name, sale.Customer.Contact, sale.Customer.TaxID,
		sale.Total.String(), string(payload), string(sale.Status))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrSaleIDConflict, sale.ID)
		}
		return fmt.Errorf("insert sale %s: %w", sale.ID, err)
	}
	return nil
}

func (r *txRepo) AdjustStock(ctx context.Context, sku string, delta int) (int, error) {
	var qty int
	err := r.db.QueryRow(ctx, `UPDATE products SET cantidad = cantidad + $1 WHERE sku = $2 RETURNING cantidad`, delta, sku).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock %s: %w", sku, err)
	}
	return qty, nil
}

func (r *txRepo) GetSaleForUpdate(ctx context.Context, id string) (Sale, error) {
	sale, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return sale, err
}

func (r *txRepo) UpdateSaleStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE sales SET estado = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update sale %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrSaleNotFound, id)
	}
	return nil
}

func scanSale(row pgx.Row) (Sale, error) {
	var (
		sale   Sale
		soldAt time.Time
		total  string
		items  string
		status string
	)
	if err := row.Scan(&sale.ID, &soldAt, &sale.Customer.Name, &sale.Customer.Contact, &sale.Customer.TaxID, &total, &items, &status); err != nil {
		return Sale{}, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return Sale{}, fmt.Errorf("decode total of %s: %w", sale.ID, err)
	}
	if err := json.Unmarshal([]byte(items), &sale.Items); err != nil {
		return Sale{}, fmt.Errorf("decode line items of %s: %w", sale.ID, err)
	}
	sale.SoldAt = soldAt.UTC()
	sale.Total = amount
	sale.Status = Status(status)
	return sale, nil
}
