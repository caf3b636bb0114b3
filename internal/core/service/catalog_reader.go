package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// DefaultPageSize is used when callers pass a non-positive size.
const DefaultPageSize = 10

// FeaturedCount is the size of the home-screen grid.
const FeaturedCount = 8

// placeholderProducts fill the featured grid when the catalog is too small
// or unreachable. Their ids are outside the range the API assigns.
var placeholderProducts = []domain.Product{
	{ID: 9001, Name: "Premium Wireless Headphones", Price: 299.99},
	{ID: 9002, Name: "Ultra-Wide Gaming Monitor", Price: 449.99},
	{ID: 9003, Name: "Professional DSLR Camera", Price: 899.99},
	{ID: 9004, Name: "Smart Home Hub", Price: 129.99},
	{ID: 9005, Name: "Mechanical Keyboard", Price: 89.99},
	{ID: 9006, Name: "Ergonomic Office Chair", Price: 179.99},
	{ID: 9007, Name: "Minimalist Wood Desk", Price: 249.99},
	{ID: 9008, Name: "Bluetooth Speaker", Price: 59.99},
}

// CatalogReader reads the product catalog. It keeps no cache.
type CatalogReader struct {
	api ports.CatalogAPI
	log zerolog.Logger
}

func NewCatalogReader(api ports.CatalogAPI, log zerolog.Logger) *CatalogReader {
	return &CatalogReader{api: api, log: log}
}

func pageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}

func (r *CatalogReader) ListProducts(ctx context.Context, page, size int) (*domain.Page[domain.Product], error) {
	if page < 0 {
		page = 0
	}
	return r.api.ListProducts(ctx, page, pageSize(size))
}

func (r *CatalogReader) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return r.api.GetProduct(ctx, id)
}

func (r *CatalogReader) SearchProducts(ctx context.Context, keyword string, page, size int) (*domain.Page[domain.Product], error) {
	if page < 0 {
		page = 0
	}
	return r.api.SearchProducts(ctx, keyword, page, pageSize(size))
}

func (r *CatalogReader) Categories(ctx context.Context) ([]domain.Category, error) {
	return r.api.ListCategories(ctx)
}

// Featured returns up to n products for the home screen, padded with
// placeholders when the catalog has fewer. A failed fetch yields
// placeholders only.
func (r *CatalogReader) Featured(ctx context.Context, n int) []domain.Product {
	if n <= 0 {
		n = FeaturedCount
	}

	page, err := r.api.ListProducts(ctx, 0, max(n, DefaultPageSize))
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to fetch products; using placeholders")
		return placeholders(nil, n)
	}

	out := make([]domain.Product, 0, n)
	if page == nil {
		return placeholders(out, n)
	}
	for _, p := range page.Content {
		if len(out) == n {
			break
		}
		out = append(out, p)
	}
	return placeholders(out, n)
}

// placeholders pads list up to n with placeholder products whose ids are
// not already present.
func placeholders(list []domain.Product, n int) []domain.Product {
	seen := make(map[int64]bool, len(list))
	for _, p := range list {
		seen[p.ID] = true
	}
	for _, p := range placeholderProducts {
		if len(list) >= n {
			break
		}
		if seen[p.ID] {
			continue
		}
		p.Placeholder = true
		list = append(list, p)
	}
	return list
}
