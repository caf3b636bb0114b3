package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// cartKey is the serializer key for the signed-in user's cart. There is one
// cart per session.
const cartKey = "cart"

const (
	msgLoginToAdd    = "Please login to add items to cart"
	msgLoginToManage = "Please login to manage your cart"
)

// IdentitySource reports the current identity and announces transitions.
type IdentitySource interface {
	Identity() *domain.Identity
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())
}

// CartStore mirrors the server cart. Every mutation is a server round-trip
// whose response replaces the local cart wholesale.
type CartStore struct {
	api    ports.CartAPI
	serial ports.Serializer
	notify ports.Notifier
	log    zerolog.Logger

	mu      sync.RWMutex
	session IdentitySource
	cart    *domain.Cart
	loading bool
	gen     uint64
	bindCtx context.Context
	detach  func()
	subs    broadcaster[*domain.Cart]
}

// NewCartStore builds a cart store. serial may be nil, in which case calls
// run on the caller's goroutine without ordering guarantees.
func NewCartStore(api ports.CartAPI, serial ports.Serializer, notify ports.Notifier, log zerolog.Logger) *CartStore {
	if notify == nil {
		notify = ports.NotifierFunc(func(domain.Notice) {})
	}
	return &CartStore{
		api:    api,
		serial: serial,
		notify: notify,
		log:    log,
		cart:   domain.EmptyCart(),
	}
}

// Bind follows the session's identity transitions. When an identity is
// already present the cart is fetched immediately.
func (c *CartStore) Bind(ctx context.Context, session IdentitySource) {
	c.mu.Lock()
	if c.detach != nil {
		c.detach()
	}
	c.session = session
	c.bindCtx = ctx
	c.mu.Unlock()

	detach := session.Subscribe(c.onIdentity)

	c.mu.Lock()
	c.detach = detach
	c.mu.Unlock()

	c.onIdentity(session.Identity())
}

// Close stops following the session.
func (c *CartStore) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
}

func (c *CartStore) onIdentity(id *domain.Identity) {
	c.mu.Lock()
	c.gen++
	ctx := c.bindCtx
	if id == nil {
		c.cart = domain.EmptyCart()
	}
	snapshot := c.cart.Clone()
	c.mu.Unlock()

	if id == nil {
		c.subs.publish(snapshot)
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c.Refresh(ctx)
}

// Subscribe registers fn to run whenever the local cart is replaced.
func (c *CartStore) Subscribe(fn func(*domain.Cart)) (unsubscribe func()) {
	return c.subs.subscribe(fn)
}

// Cart returns a copy of the local cart.
func (c *CartStore) Cart() *domain.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.Clone()
}

// Loading reports whether a full fetch is in flight.
func (c *CartStore) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *CartStore) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.TotalItems()
}

func (c *CartStore) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cart.TotalPrice()
}

func (c *CartStore) signedIn() bool {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	return session != nil && session.Identity() != nil
}

func (c *CartStore) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// replace installs cart if no identity transition happened since gen was
// read. It reports false for stale responses.
func (c *CartStore) replace(gen uint64, cart *domain.Cart) bool {
	if cart == nil {
		cart = domain.EmptyCart()
	}
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return false
	}
	c.cart = cart.Clone()
	c.mu.Unlock()
	c.subs.publish(cart.Clone())
	return true
}

func (c *CartStore) run(ctx context.Context, fn func(context.Context) error) error {
	if c.serial == nil {
		return fn(ctx)
	}
	return c.serial.Do(ctx, cartKey, fn)
}

// Refresh fetches the full server cart. A failed fetch leaves an empty cart
// since the server creates carts on first add.
func (c *CartStore) Refresh(ctx context.Context) {
	if !c.signedIn() {
		c.replace(c.generation(), domain.EmptyCart())
		return
	}

	gen := c.generation()
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	// fetched is only read after a nil error: a cancelled caller returns
	// while the worker may still be writing it.
	var fetched *domain.Cart
	err := c.run(ctx, func(ctx context.Context) error {
		cart, err := c.api.GetCart(ctx)
		fetched = cart
		return err
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("cart fetch failed")
		c.replace(gen, domain.EmptyCart())
		return
	}
	if !c.replace(gen, fetched) {
		metrics.CartMutationsTotal.WithLabelValues("fetch", "stale").Inc()
		c.log.Debug().Msg("discarded stale cart fetch")
	}
}

type cartMutation struct {
	op       string
	loginMsg string
	okMsg    string
	failMsg  string
	call     func(ctx context.Context) (*domain.Cart, error)
	quantity int
	checkQty bool
}

func (c *CartStore) mutate(ctx context.Context, m cartMutation) bool {
	if !c.signedIn() {
		metrics.CartMutationsTotal.WithLabelValues(m.op, "rejected").Inc()
		c.notify.Notify(domain.Failure(m.loginMsg))
		return false
	}
	if m.checkQty && m.quantity < 1 {
		metrics.CartMutationsTotal.WithLabelValues(m.op, "rejected").Inc()
		c.notify.Notify(domain.Failure(domain.ErrInvalidQuantity.Error()))
		return false
	}

	gen := c.generation()
	var result *domain.Cart
	err := c.run(ctx, func(ctx context.Context) error {
		cart, err := m.call(ctx)
		result = cart
		return err
	})
	if err != nil {
		metrics.CartMutationsTotal.WithLabelValues(m.op, "failed").Inc()
		c.log.Warn().Err(err).Str("op", m.op).Msg("cart mutation failed")
		c.notify.Notify(domain.Failure(messageOr(err, m.failMsg)))
		return false
	}
	if !c.replace(gen, result) {
		metrics.CartMutationsTotal.WithLabelValues(m.op, "stale").Inc()
		c.log.Info().Str("op", m.op).Msg("session changed during cart mutation; response discarded")
		return false
	}

	metrics.CartMutationsTotal.WithLabelValues(m.op, "ok").Inc()
	c.notify.Notify(domain.Success(m.okMsg))
	return true
}

// AddToCart adds quantity of a product to the server cart.
func (c *CartStore) AddToCart(ctx context.Context, productID int64, quantity int) bool {
	return c.mutate(ctx, cartMutation{
		op:       "add",
		loginMsg: msgLoginToAdd,
		okMsg:    "Item added to cart",
		failMsg:  "Failed to add item to cart",
		quantity: quantity,
		checkQty: true,
		call: func(ctx context.Context) (*domain.Cart, error) {
			return c.api.AddItem(ctx, productID, quantity)
		},
	})
}

// UpdateQuantity sets a line's quantity. Zero is rejected; use
// RemoveFromCart.
func (c *CartStore) UpdateQuantity(ctx context.Context, itemID int64, quantity int) bool {
	return c.mutate(ctx, cartMutation{
		op:       "update",
		loginMsg: msgLoginToManage,
		okMsg:    "Cart updated",
		failMsg:  "Failed to update cart",
		quantity: quantity,
		checkQty: true,
		call: func(ctx context.Context) (*domain.Cart, error) {
			return c.api.UpdateItem(ctx, itemID, quantity)
		},
	})
}

func (c *CartStore) RemoveFromCart(ctx context.Context, itemID int64) bool {
	return c.mutate(ctx, cartMutation{
		op:       "remove",
		loginMsg: msgLoginToManage,
		okMsg:    "Item removed from cart",
		failMsg:  "Failed to remove item from cart",
		call: func(ctx context.Context) (*domain.Cart, error) {
			return c.api.RemoveItem(ctx, itemID)
		},
	})
}

// ClearCart empties the local cart only. The server cart is untouched.
func (c *CartStore) ClearCart() {
	c.replace(c.generation(), domain.EmptyCart())
}
