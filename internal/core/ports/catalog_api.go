package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// CatalogAPI reads the product catalog. Pages are zero-based.
type CatalogAPI interface {
	ListProducts(ctx context.Context, page, size int) (*domain.Page[domain.Product], error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SearchProducts(ctx context.Context, keyword string, page, size int) (*domain.Page[domain.Product], error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// ProductAdminAPI writes the catalog. Admin credentials required.
type ProductAdminAPI interface {
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
