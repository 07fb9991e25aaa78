package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// Service manages the product catalogue.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: httpx.NewValidator()}
}

// List returns products ordered by name.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	filters.Search = strings.TrimSpace(filters.Search)
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Get returns a product by SKU.
func (s *Service) Get(ctx context.Context, sku string) (Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return Product{}, errSKURequired
	}
	return s.repo.Get(ctx, sku)
}

// Create adds a product with its initial stock.
func (s *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	input = normalize(input)
	if err := s.validateInput(input); err != nil {
		return Product{}, err
	}
	product := input.toProduct()
	if err := s.repo.Create(ctx, product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// Update rewrites the product stored under originalSKU. The body SKU may differ
// to rename the product. Quantity in the input is ignored.
func (s *Service) Update(ctx context.Context, originalSKU string, input ProductInput) error {
	originalSKU = strings.TrimSpace(originalSKU)
	if originalSKU == "" {
		return errSKURequired
	}
	input = normalize(input)
	if input.SKU == "" {
		input.SKU = originalSKU
	}
	if err := s.validateInput(input); err != nil {
		return err
	}
	return s.repo.Update(ctx, originalSKU, input.toProduct())
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return errSKURequired
	}
	return s.repo.Delete(ctx, sku)
}

// LowStock reports the given SKUs whose quantity is at or below threshold.
func (s *Service) LowStock(ctx context.Context, skus []string, threshold int) ([]StockLevel, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	levels, err := s.repo.StockLevels(ctx, dedupe(skus))
	if err != nil {
		return nil, fmt.Errorf("load stock levels: %w", err)
	}
	low := levels[:0]
	for _, lvl := range levels {
		if lvl.Quantity <= threshold {
			low = append(low, lvl)
		}
	}
	return low, nil
}

func dedupe(skus []string) []string {
	seen := make(map[string]struct{}, len(skus))
	out := make([]string, 0, len(skus))
	for _, sku := range skus {
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		out = append(out, sku)
	}
	return out
}
