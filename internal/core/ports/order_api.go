package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// OrderAPI covers the customer and admin order endpoints.
type OrderAPI interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)

	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	CancelOrderAsAdmin(ctx context.Context, id int64) (*domain.Order, error)
}
