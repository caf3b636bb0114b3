package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
)

type stubOrderAPI struct {
	orders     map[int64]*domain.Order
	calls      map[string]int
	cancelErr  error
	lastStatus domain.OrderStatus
	placed     []domain.OrderRequest
}

func newStubOrderAPI(orders ...domain.Order) *stubOrderAPI {
	api := &stubOrderAPI{orders: make(map[int64]*domain.Order), calls: make(map[string]int)}
	for i := range orders {
		o := orders[i]
		api.orders[o.ID] = &o
	}
	return api
}

func (a *stubOrderAPI) list() []domain.Order {
	out := make([]domain.Order, 0, len(a.orders))
	for _, o := range a.orders {
		out = append(out, *o)
	}
	return out
}

func (a *stubOrderAPI) PlaceOrder(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
	a.calls["place"]++
	a.placed = append(a.placed, req)
	o := &domain.Order{ID: int64(100 + len(a.placed)), Status: domain.StatusPending, PaymentMethod: req.PaymentMethod}
	a.orders[o.ID] = o
	return o, nil
}

func (a *stubOrderAPI) ListOrders(context.Context) ([]domain.Order, error) {
	a.calls["list"]++
	return a.list(), nil
}

func (a *stubOrderAPI) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	a.calls["get"]++
	o, ok := a.orders[id]
	if !ok {
		return nil, &apiError{status: 404, msg: "Order not found"}
	}
	c := *o
	return &c, nil
}

func (a *stubOrderAPI) CancelOrder(_ context.Context, id int64) (*domain.Order, error) {
	a.calls["cancel"]++
	if a.cancelErr != nil {
		return nil, a.cancelErr
	}
	a.orders[id].Status = domain.StatusCancelled
	return a.GetOrder(context.Background(), id)
}

func (a *stubOrderAPI) ListAllOrders(context.Context) ([]domain.Order, error) {
	a.calls["listAll"]++
	return a.list(), nil
}

func (a *stubOrderAPI) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	a.calls["status"]++
	a.lastStatus = status
	a.orders[id].Status = status
	return a.GetOrder(context.Background(), id)
}

func (a *stubOrderAPI) CancelOrderAsAdmin(_ context.Context, id int64) (*domain.Order, error) {
	a.calls["adminCancel"]++
	a.orders[id].Status = domain.StatusCancelled
	return a.GetOrder(context.Background(), id)
}

// stubCheckoutCart records checkout's cart interactions.
type stubCheckoutCart struct {
	cart      *domain.Cart
	cleared   bool
	refreshed bool
}

func (c *stubCheckoutCart) Cart() *domain.Cart { return c.cart }

func (c *stubCheckoutCart) ClearCart() {
	c.cleared = true
	c.cart = domain.EmptyCart()
}

func (c *stubCheckoutCart) Refresh(context.Context) { c.refreshed = true }

func validCheckout() domain.OrderRequest {
	return domain.OrderRequest{
		ShippingAddress: domain.ShippingAddress{
			FullName:     "Alice Doe",
			AddressLine1: "1 Main St",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62701",
			Country:      "USA",
		},
		PaymentMethod: domain.PaymentCOD,
	}
}

func TestOrderService_Cancel_OnlyPending(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled,
	} {
		api := newStubOrderAPI(domain.Order{ID: 1, Status: status})
		notes := &recordingNotifier{}
		svc := NewOrderService(api, nil, notes, zerolog.Nop())

		_, err := svc.Cancel(context.Background(), domain.Order{ID: 1, Status: status})
		if !errors.Is(err, domain.ErrNotCancellable) {
			t.Fatalf("%s: expected ErrNotCancellable, got %v", status, err)
		}
		if api.calls["cancel"] != 0 {
			t.Fatalf("%s: cancel must not reach the server", status)
		}
	}
}

func TestOrderService_Cancel_PendingRefetches(t *testing.T) {
	api := newStubOrderAPI(domain.Order{ID: 1, Status: domain.StatusPending})
	notes := &recordingNotifier{}
	svc := NewOrderService(api, nil, notes, zerolog.Nop())

	got, err := svc.Cancel(context.Background(), domain.Order{ID: 1, Status: domain.StatusPending})
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if got.Status != domain.StatusCancelled {
		t.Fatalf("expected refreshed status CANCELLED, got %s", got.Status)
	}
	if api.calls["cancel"] != 1 || api.calls["get"] < 1 {
		t.Fatalf("expected cancel then re-fetch, got %v", api.calls)
	}
	if notes.last().Level != domain.NoticeSuccess {
		t.Fatalf("expected success notice")
	}
}

func TestOrderService_Cancel_ServerRejection(t *testing.T) {
	api := newStubOrderAPI(domain.Order{ID: 1, Status: domain.StatusPending})
	api.cancelErr = &apiError{status: 400, msg: "Only pending orders can be cancelled"}
	notes := &recordingNotifier{}
	svc := NewOrderService(api, nil, notes, zerolog.Nop())

	if _, err := svc.Cancel(context.Background(), domain.Order{ID: 1, Status: domain.StatusPending}); err == nil {
		t.Fatalf("expected error")
	}
	if notes.last().Message != "Only pending orders can be cancelled" {
		t.Fatalf("expected server message, got %+v", notes.last())
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	api := newStubOrderAPI(domain.Order{ID: 1, Status: domain.StatusPending})
	svc := NewOrderService(api, nil, nil, zerolog.Nop())

	if _, err := svc.UpdateStatus(context.Background(), 1, domain.StatusCancelled); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for CANCELLED, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), 1, "LOST"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for unknown status, got %v", err)
	}
	if api.calls["status"] != 0 {
		t.Fatalf("invalid statuses must not reach the server")
	}

	all, err := svc.UpdateStatus(context.Background(), 1, domain.StatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if api.lastStatus != domain.StatusShipped || api.calls["listAll"] != 1 {
		t.Fatalf("expected status call then full re-fetch, got %v", api.calls)
	}
	if len(all) != 1 || all[0].Status != domain.StatusShipped {
		t.Fatalf("unexpected refreshed list: %+v", all)
	}
}

func TestOrderService_ForceCancel(t *testing.T) {
	api := newStubOrderAPI(domain.Order{ID: 1, Status: domain.StatusShipped})
	svc := NewOrderService(api, nil, nil, zerolog.Nop())

	all, err := svc.ForceCancel(context.Background(), 1)
	if err != nil {
		t.Fatalf("ForceCancel returned error: %v", err)
	}
	if api.calls["adminCancel"] != 1 || api.calls["listAll"] != 1 {
		t.Fatalf("expected admin cancel then re-fetch, got %v", api.calls)
	}
	if all[0].Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled order, got %s", all[0].Status)
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	api := newStubOrderAPI()
	cart := &stubCheckoutCart{cart: &domain.Cart{Items: []domain.CartItem{{ID: 1, Quantity: 1, Price: 5}}}}
	svc := NewOrderService(api, cart, nil, zerolog.Nop())

	order, err := svc.PlaceOrder(context.Background(), validCheckout())
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("unexpected order: %+v", order)
	}
	if !cart.cleared || !cart.refreshed {
		t.Fatalf("expected local clear and server re-fetch, got cleared=%v refreshed=%v", cart.cleared, cart.refreshed)
	}
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	api := newStubOrderAPI()
	cart := &stubCheckoutCart{cart: &domain.Cart{Items: []domain.CartItem{{ID: 1, Quantity: 1}}}}
	notes := &recordingNotifier{}
	svc := NewOrderService(api, cart, notes, zerolog.Nop())

	form := validCheckout()
	form.ShippingAddress.City = ""
	if _, err := svc.PlaceOrder(context.Background(), form); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if notes.last().Message != "city is required" {
		t.Fatalf("unexpected notice: %+v", notes.last())
	}

	form = validCheckout()
	form.PaymentMethod = "BITCOIN"
	if _, err := svc.PlaceOrder(context.Background(), form); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for payment method, got %v", err)
	}

	cart.cart = domain.EmptyCart()
	if _, err := svc.PlaceOrder(context.Background(), validCheckout()); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
	if api.calls["place"] != 0 {
		t.Fatalf("rejected checkouts must not reach the server")
	}
}
