package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tiendapos/pos/internal/platform/db"
)

// Repository persists products.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, error)
	Get(ctx context.Context, sku string) (Product, error)
	Create(ctx context.Context, product Product) error
	Update(ctx context.Context, originalSKU string, product Product) error
	Delete(ctx context.Context, sku string) error
	StockLevels(ctx context.Context, skus []string) ([]StockLevel, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the PostgreSQL implementation.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const productColumns = `sku, COALESCE(nombre, ''), COALESCE(precio_venta, 0)::text, COALESCE(precio_compra, 0)::text,
	COALESCE(precio_mayoreo, 0)::text, COALESCE(cantidad, 0), COALESCE(codigo_barras, ''), COALESCE(url_foto_1, '')`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []interface{}{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (nombre ILIKE $` + n + ` OR sku ILIKE $` + n + ` OR codigo_barras ILIKE $` + n + `)`
	}
	query += ` ORDER BY nombre, sku`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, sku string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (sku, nombre, precio_venta, precio_compra, precio_mayoreo, cantidad, codigo_barras, url_foto_1)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7, $8)
	`, p.SKU, p.Name, p.RetailPrice.String(), p.CostPrice.String(), p.WholesalePrice.String(), p.Quantity, p.Barcode, p.PhotoURL)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateSKU, p.SKU)
	}
	return err
}

// Update rewrites every attribute except the quantity on hand, which only
// sales and annulments move.
func (r *repository) Update(ctx context.Context, originalSKU string, p Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products SET
			sku = $1,
			nombre = $2,
			precio_venta = $3::numeric,
			precio_compra = $4::numeric,
			precio_mayoreo = $5::numeric,
			codigo_barras = $6,
			url_foto_1 = $7
		WHERE sku = $8
	`, p.SKU, p.Name, p.RetailPrice.String(), p.CostPrice.String(), p.WholesalePrice.String(), p.Barcode, p.PhotoURL, originalSKU)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, p.SKU)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, originalSKU)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, sku string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE sku = $1`, sku)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	return nil
}

func (r *repository) StockLevels(ctx context.Context, skus []string) ([]StockLevel, error) {
	rows, err := r.db.Query(ctx, `SELECT sku, COALESCE(nombre, ''), COALESCE(cantidad, 0) FROM products WHERE sku = ANY($1) ORDER BY sku`, skus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var lvl StockLevel
		if err := rows.Scan(&lvl.SKU, &lvl.Name, &lvl.Quantity); err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var retail, cost, wholesale string
	if err := row.Scan(&p.SKU, &p.Name, &retail, &cost, &wholesale, &p.Quantity, &p.Barcode, &p.PhotoURL); err != nil {
		return Product{}, err
	}
	var err error
	if p.RetailPrice, err = decimal.NewFromString(retail); err != nil {
		return Product{}, fmt.Errorf("decode precio_venta of %s: %w", p.SKU, err)
	}
	if p.CostPrice, err = decimal.NewFromString(cost); err != nil {
		return Product{}, fmt.Errorf("decode precio_compra of %s: %w", p.SKU, err)
	}
	if p.WholesalePrice, err = decimal.NewFromString(wholesale); err != nil {
		return Product{}, fmt.Errorf("decode precio_mayoreo of %s: %w", p.SKU, err)
	}
	return p, nil
}
