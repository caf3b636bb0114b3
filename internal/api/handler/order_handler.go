package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/sandbox"
)

// OrderHandler serves customer and admin order endpoints.
type OrderHandler struct {
	store *sandbox.Store
}

func NewOrderHandler(store *sandbox.Store) *OrderHandler {
	return &OrderHandler{store: store}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// Place handles POST /orders.
//
// @Summary      Place an order from the cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.OrderRequest  true  "Shipping address and payment method"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	var req domain.OrderRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	order, err := h.store.PlaceOrder(email, req)
	if err != nil {
		return err
	}
	metrics.SandboxOrdersPlacedTotal.WithLabelValues(order.PaymentMethod).Inc()
	return c.JSON(http.StatusOK, order)
}

// List handles GET /orders.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	orders, err := h.store.Orders(email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.store.Order(email, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles PUT /orders/:id/cancel.
func (h *OrderHandler) Cancel(c echo.Context) error {
	email, err := currentEmail(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.store.CancelOrder(email, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ListAll handles GET /orders/all. Admin only.
func (h *OrderHandler) ListAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.AllOrders())
}

// UpdateStatus handles PUT /orders/:id/status. Admin only.
//
// @Summary      Move an order to a new status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Order ID"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	order, err := h.store.SetOrderStatus(id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ForceCancel handles PUT /orders/:id/cancel-admin. Admin only.
func (h *OrderHandler) ForceCancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.store.ForceCancel(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
