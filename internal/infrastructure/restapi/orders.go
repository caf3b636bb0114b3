package restapi

import (
	"context"
	"net/http"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

var _ ports.OrderAPI = (*Client)(nil)

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (c *Client) order(ctx context.Context, cl call) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, cl, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) orders(ctx context.Context, cl call) ([]domain.Order, error) {
	list := []domain.Order{}
	if err := c.do(ctx, cl, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	return c.order(ctx, call{method: http.MethodPost, route: "/orders", path: "/orders", body: req})
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return c.orders(ctx, call{method: http.MethodGet, route: "/orders", path: "/orders"})
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.order(ctx, call{method: http.MethodGet, route: "/orders/{id}", path: idPath("/orders", id, "")})
}

func (c *Client) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return c.order(ctx, call{method: http.MethodPut, route: "/orders/{id}/cancel", path: idPath("/orders", id, "/cancel")})
}

func (c *Client) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return c.orders(ctx, call{method: http.MethodGet, route: "/orders/all", path: "/orders/all"})
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return c.order(ctx, call{
		method: http.MethodPut,
		route:  "/orders/{id}/status",
		path:   idPath("/orders", id, "/status"),
		body:   statusRequest{Status: status},
	})
}

func (c *Client) CancelOrderAsAdmin(ctx context.Context, id int64) (*domain.Order, error) {
	return c.order(ctx, call{method: http.MethodPut, route: "/orders/{id}/cancel-admin", path: idPath("/orders", id, "/cancel-admin")})
}
