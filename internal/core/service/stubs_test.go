package service

import (
	"context"
	"errors"
	"sync"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// apiError mimics the REST adapter's error carrying a server message.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string         { return e.msg }
func (e *apiError) ServerMessage() string { return e.msg }

// ── storage ──────────────────────────────────────────────────────────────────

type stubStorage struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newStubStorage() *stubStorage {
	return &stubStorage{data: make(map[string]string)}
}

func (s *stubStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	v, ok := s.data[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

func (s *stubStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// ── auth ─────────────────────────────────────────────────────────────────────

type stubAuthAPI struct {
	token         string
	identity      *domain.Identity
	loginErr      error
	registerErr   error
	loginCalls    int
	registerCalls int
	lastRegister  ports.RegisterInput
}

func (a *stubAuthAPI) Login(_ context.Context, email, password string) (string, *domain.Identity, error) {
	a.loginCalls++
	if a.loginErr != nil {
		return "", nil, a.loginErr
	}
	return a.token, a.identity.Clone(), nil
}

func (a *stubAuthAPI) Register(_ context.Context, in ports.RegisterInput) error {
	a.registerCalls++
	a.lastRegister = in
	return a.registerErr
}

// ── identity ─────────────────────────────────────────────────────────────────

// fixedSession is an IdentitySource whose identity the test controls.
type fixedSession struct {
	mu   sync.Mutex
	id   *domain.Identity
	subs broadcaster[*domain.Identity]
}

func (f *fixedSession) Identity() *domain.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id.Clone()
}

func (f *fixedSession) Subscribe(fn func(*domain.Identity)) func() {
	return f.subs.subscribe(fn)
}

func (f *fixedSession) setIdentity(id *domain.Identity) {
	f.mu.Lock()
	f.id = id
	f.mu.Unlock()
	f.subs.publish(id.Clone())
}

func shopper() *domain.Identity {
	return &domain.Identity{ID: 1, Name: "Alice", Email: "alice@example.com", Roles: []domain.Role{domain.RoleUser}}
}

// ── cart ─────────────────────────────────────────────────────────────────────

// stubCartAPI behaves like the server: adds accumulate per product and every
// call returns the full cart.
type stubCartAPI struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	items    []domain.CartItem
	nextID   int64
	calls    int
	err      error
	// before runs at the start of every call.
	before func()
}

func newStubCartAPI(products ...domain.Product) *stubCartAPI {
	api := &stubCartAPI{products: make(map[int64]domain.Product), nextID: 100}
	for _, p := range products {
		api.products[p.ID] = p
	}
	return api
}

func (a *stubCartAPI) enter() error {
	if a.before != nil {
		a.before()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.err
}

func (a *stubCartAPI) snapshot() *domain.Cart {
	a.mu.Lock()
	defer a.mu.Unlock()
	c := &domain.Cart{ID: 1, Items: append([]domain.CartItem(nil), a.items...)}
	return c.Clone()
}

func (a *stubCartAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *stubCartAPI) GetCart(context.Context) (*domain.Cart, error) {
	if err := a.enter(); err != nil {
		return nil, err
	}
	return a.snapshot(), nil
}

func (a *stubCartAPI) AddItem(_ context.Context, productID int64, quantity int) (*domain.Cart, error) {
	if err := a.enter(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	p, ok := a.products[productID]
	if !ok {
		a.mu.Unlock()
		return nil, &apiError{status: 404, msg: "Product not found"}
	}
	found := false
	for i := range a.items {
		if a.items[i].Product.ID == productID {
			a.items[i].Quantity += quantity
			found = true
		}
	}
	if !found {
		a.nextID++
		prod := p
		a.items = append(a.items, domain.CartItem{ID: a.nextID, Product: &prod, Quantity: quantity, Price: p.Price})
	}
	a.mu.Unlock()
	return a.snapshot(), nil
}

func (a *stubCartAPI) UpdateItem(_ context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	if err := a.enter(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	for i := range a.items {
		if a.items[i].ID == itemID {
			a.items[i].Quantity = quantity
			a.mu.Unlock()
			return a.snapshot(), nil
		}
	}
	a.mu.Unlock()
	return nil, &apiError{status: 404, msg: "Cart item not found"}
}

func (a *stubCartAPI) RemoveItem(_ context.Context, itemID int64) (*domain.Cart, error) {
	if err := a.enter(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	out := a.items[:0]
	for _, it := range a.items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	a.items = out
	a.mu.Unlock()
	return a.snapshot(), nil
}

// ── notifier ─────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (r *recordingNotifier) Notify(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) last() domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return domain.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

var errTransport = errors.New("dial tcp: connection refused")
