package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// CheckoutCart is the part of the cart store checkout depends on.
type CheckoutCart interface {
	Cart() *domain.Cart
	ClearCart()
	Refresh(ctx context.Context)
}

// OrderService reads order history and requests status changes. The server
// owns every transition; each mutation is followed by a re-fetch.
type OrderService struct {
	api      ports.OrderAPI
	cart     CheckoutCart
	validate *Validator
	notify   ports.Notifier
	log      zerolog.Logger
}

func NewOrderService(api ports.OrderAPI, cart CheckoutCart, notify ports.Notifier, log zerolog.Logger) *OrderService {
	if notify == nil {
		notify = ports.NotifierFunc(func(domain.Notice) {})
	}
	return &OrderService{
		api:      api,
		cart:     cart,
		validate: NewValidator(),
		notify:   notify,
		log:      log,
	}
}

func (s *OrderService) ListMine(ctx context.Context) ([]domain.Order, error) {
	return s.api.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.api.GetOrder(ctx, id)
}

// Cancel cancels one of the caller's orders. Only orders displayed as
// PENDING are sent to the server; the refreshed order is returned.
func (s *OrderService) Cancel(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if !order.CanCancel() {
		s.notify.Notify(domain.Failure("Only pending orders can be cancelled"))
		return nil, domain.ErrNotCancellable
	}
	if _, err := s.api.CancelOrder(ctx, order.ID); err != nil {
		s.log.Warn().Err(err).Int64("order_id", order.ID).Msg("cancel order failed")
		s.notify.Notify(domain.Failure(messageOr(err, "Failed to cancel order")))
		return nil, fmt.Errorf("cancel order %d: %w", order.ID, err)
	}
	s.notify.Notify(domain.Success("Order cancelled successfully"))
	return s.api.GetOrder(ctx, order.ID)
}

// PlaceOrder validates the checkout form, submits the order and resyncs the
// cart. The local cart is cleared first; the server's cart is then fetched
// so the view reflects whatever the server kept.
func (s *OrderService) PlaceOrder(ctx context.Context, form domain.OrderRequest) (*domain.Order, error) {
	if err := s.validate.Validate(form); err != nil {
		s.notify.Notify(domain.Failure(validationMessage(err)))
		return nil, err
	}
	if s.cart != nil && s.cart.Cart().TotalItems() == 0 {
		s.notify.Notify(domain.Failure("Your cart is empty"))
		return nil, domain.ErrCartEmpty
	}

	order, err := s.api.PlaceOrder(ctx, form)
	if err != nil {
		s.log.Warn().Err(err).Msg("place order failed")
		s.notify.Notify(domain.Failure(messageOr(err, "Failed to place order. Please try again.")))
		return nil, fmt.Errorf("place order: %w", err)
	}
	metrics.OrdersPlacedTotal.WithLabelValues(form.PaymentMethod).Inc()

	if s.cart != nil {
		s.cart.ClearCart()
		s.cart.Refresh(ctx)
	}
	s.notify.Notify(domain.Success("Order placed successfully!"))
	return order, nil
}

// ── Admin ────────────────────────────────────────────────────────────────────

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.api.ListAllOrders(ctx)
}

// UpdateStatus sets a non-cancelled status and returns the refreshed list of
// all orders. Legality of the transition is the server's call.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) ([]domain.Order, error) {
	if !status.Settable() {
		s.notify.Notify(domain.Failure(fmt.Sprintf("Status %q cannot be set directly", status)))
		return nil, domain.ErrInvalidStatus
	}
	if _, err := s.api.UpdateOrderStatus(ctx, id, status); err != nil {
		s.log.Warn().Err(err).Int64("order_id", id).Str("status", string(status)).Msg("update order status failed")
		s.notify.Notify(domain.Failure(messageOr(err, "Failed to update order status")))
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	s.notify.Notify(domain.Success("Order status updated!"))
	return s.api.ListAllOrders(ctx)
}

// ForceCancel cancels any order as admin and returns the refreshed list.
func (s *OrderService) ForceCancel(ctx context.Context, id int64) ([]domain.Order, error) {
	if _, err := s.api.CancelOrderAsAdmin(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("order_id", id).Msg("admin cancel failed")
		s.notify.Notify(domain.Failure(messageOr(err, "Failed to cancel order")))
		return nil, fmt.Errorf("cancel order %d: %w", id, err)
	}
	s.notify.Notify(domain.Success("Order cancelled successfully!"))
	return s.api.ListAllOrders(ctx)
}
