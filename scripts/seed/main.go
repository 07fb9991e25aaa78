package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendapos/pos/internal/app"
	"github.com/tiendapos/pos/internal/auth"
	"github.com/tiendapos/pos/internal/platform/db"
	"github.com/tiendapos/pos/internal/platform/httpx"
	"github.com/tiendapos/pos/internal/products"
)

type seedProduct struct {
	sku, name, barcode string
	retail, cost, bulk string
	quantity           int
}

var catalog = []seedProduct{
	{sku: "CUA-001", name: "Cuaderno profesional 100 hojas", barcode: "7501031311309", retail: "45.00", cost: "28.50", bulk: "40.00", quantity: 120},
	{sku: "LAP-002", name: "Lápiz HB caja 12", barcode: "7501031311316", retail: "38.90", cost: "21.00", bulk: "34.00", quantity: 60},
	{sku: "BOL-003", name: "Bolígrafo tinta azul", barcode: "7501031311323", retail: "8.50", cost: "4.10", bulk: "7.00", quantity: 300},
	{sku: "PEG-004", name: "Pegamento en barra 21g", barcode: "7501031311330", retail: "19.00", cost: "9.80", bulk: "16.50", quantity: 4},
	{sku: "TIJ-005", name: "Tijeras escolares", barcode: "7501031311347", retail: "32.00", cost: "17.25", bulk: "28.00", quantity: 25},
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AdminUsername != "" {
		created, err := auth.NewService(auth.NewRepository(pool)).EnsureInitialAccount(ctx, auth.InitialAccount{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			FullName: cfg.AdminFullName,
		})
		if err != nil {
			logger.Error("seed account", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("account seeded", slog.String("username", cfg.AdminUsername), slog.Bool("created", created))
	}

	svc := products.NewService(products.NewRepository(pool))
	inserted := 0
	for _, p := range catalog {
		if _, err := svc.Create(ctx, p.input()); err != nil {
			if errors.Is(err, httpx.ErrDuplicate) {
				logger.Info("product exists, skipping", slog.String("sku", p.sku))
				continue
			}
			logger.Error("seed product", slog.String("sku", p.sku), slog.Any("error", err))
			os.Exit(1)
		}
		inserted++
	}
	logger.Info("seed complete", slog.Int("products", inserted), slog.Time("at", time.Now()))
}

func (p seedProduct) input() products.ProductInput {
	retail := decimal.RequireFromString(p.retail)
	cost := decimal.RequireFromString(p.cost)
	bulk := decimal.RequireFromString(p.bulk)
	return products.ProductInput{
		SKU:            p.sku,
		Name:           p.name,
		RetailPrice:    &retail,
		CostPrice:      &cost,
		WholesalePrice: &bulk,
		Quantity:       p.quantity,
		Barcode:        p.barcode,
	}
}
