// Package sandbox is an in-memory backend implementing the storefront REST
// contract. It backs the `shopctl sandbox` command and the end-to-end tests
// of the HTTP adapter.
package sandbox

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/storefront/internal/core/domain"
)

var ErrCategoryNotFound = errors.New("category not found")

// User is an account held by the sandbox.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Roles        []domain.Role
	Addresses    []domain.Address
}

type storedOrder struct {
	userID int64
	order  domain.Order
}

// Store holds all sandbox state behind a single mutex.
type Store struct {
	mu       sync.Mutex
	now      func() time.Time
	hashCost int

	seq        map[string]int64
	users      map[string]*User
	categories []domain.Category
	products   map[int64]*domain.Product
	carts      map[int64]*domain.Cart
	wishlists  map[int64]*domain.Wishlist
	orders     map[int64]*storedOrder
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for order timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		hashCost:  bcrypt.DefaultCost,
		seq:       make(map[string]int64),
		users:     make(map[string]*User),
		products:  make(map[int64]*domain.Product),
		carts:     make(map[int64]*domain.Cart),
		wishlists: make(map[int64]*domain.Wishlist),
		orders:    make(map[int64]*storedOrder),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) next(kind string) int64 {
	s.seq[kind]++
	return s.seq[kind]
}

// ── Users ─────────────────────────────────────────────────────────────────────

// CreateUser registers an account. Emails are case-insensitive.
func (s *Store) CreateUser(name, email, password string, roles []domain.Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.users[key]; ok {
		return nil, domain.ErrUserExists
	}
	u := &User{
		ID:           s.next("user"),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        append([]domain.Role(nil), roles...),
	}
	s.users[key] = u
	return cloneUser(u), nil
}

// Authenticate checks the password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Store) Authenticate(email, password string) (*User, error) {
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return cloneUser(u), nil
}

func (s *Store) user(email string) (*User, error) {
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// Profile returns the account view of email.
func (s *Store) Profile(email string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     append([]domain.Role(nil), u.Roles...),
		Addresses: append([]domain.Address{}, u.Addresses...),
	}, nil
}

func (s *Store) Addresses(email string) ([]domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return append([]domain.Address{}, u.Addresses...), nil
}

// AddAddress saves addr on the account. A default address demotes the
// previous default.
func (s *Store) AddAddress(email string, addr domain.Address) (*domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	addr.ID = s.next("address")
	if addr.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	u.Addresses = append(u.Addresses, addr)
	return &addr, nil
}

func cloneUser(u *User) *User {
	c := *u
	c.Roles = append([]domain.Role(nil), u.Roles...)
	c.Addresses = append([]domain.Address(nil), u.Addresses...)
	return &c
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *Store) AddCategory(name, description string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := domain.Category{ID: s.next("category"), Name: name, Description: description}
	s.categories = append(s.categories, c)
	return c
}

func (s *Store) Categories() []domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Category{}, s.categories...)
}

func (s *Store) category(id int64) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// Products returns one zero-based page of products ordered by id. A
// non-empty keyword matches name or description, case-insensitively.
func (s *Store) Products(keyword string, page, size int) domain.Page[domain.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()

	kw := strings.ToLower(strings.TrimSpace(keyword))
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if kw != "" &&
			!strings.Contains(strings.ToLower(p.Name), kw) &&
			!strings.Contains(strings.ToLower(p.Description), kw) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if size < 1 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(matched)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return domain.Page[domain.Product]{
		Content:       matched[start:end],
		TotalElements: int64(total),
		TotalPages:    (total + size - 1) / size,
		Number:        page,
		Size:          size,
	}
}

func (s *Store) Product(id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := cloneProduct(p)
	return &c, nil
}

func (s *Store) CreateProduct(in domain.ProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.category(in.CategoryID)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{ID: s.next("product")}
	applyProductInput(p, in, cat)
	s.products[p.ID] = p
	c := cloneProduct(p)
	return &c, nil
}

func (s *Store) UpdateProduct(id int64, in domain.ProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cat, err := s.category(in.CategoryID)
	if err != nil {
		return nil, err
	}
	applyProductInput(p, in, cat)
	c := cloneProduct(p)
	return &c, nil
}

// DeleteProduct removes the product and every cart line and wishlist entry
// that references it.
func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	for _, cart := range s.carts {
		kept := cart.Items[:0]
		for _, it := range cart.Items {
			if it.Product == nil || it.Product.ID != id {
				kept = append(kept, it)
			}
		}
		cart.Items = kept
	}
	for _, w := range s.wishlists {
		kept := w.Items[:0]
		for _, it := range w.Items {
			if it.Product == nil || it.Product.ID != id {
				kept = append(kept, it)
			}
		}
		w.Items = kept
	}
	return nil
}

func applyProductInput(p *domain.Product, in domain.ProductInput, cat *domain.Category) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.ImageURL = in.ImageURL
	p.Category = cat
}

func cloneProduct(p *domain.Product) domain.Product {
	c := *p
	if p.Category != nil {
		cat := *p.Category
		c.Category = &cat
	}
	return c
}

// ── Cart ──────────────────────────────────────────────────────────────────────

// cartFor returns the user's cart, creating it on first use.
func (s *Store) cartFor(email string) (*domain.Cart, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	cart, ok := s.carts[u.ID]
	if !ok {
		cart = &domain.Cart{ID: s.next("cart"), Items: []domain.CartItem{}}
		s.carts[u.ID] = cart
	}
	return cart, nil
}

func (s *Store) Cart(email string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartFor(email)
	if err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

// AddToCart adds quantity of a product. Adding a product already in the cart
// accumulates onto the existing line.
func (s *Store) AddToCart(email string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartFor(email)
	if err != nil {
		return nil, err
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	for i := range cart.Items {
		if it := cart.Items[i]; it.Product != nil && it.Product.ID == productID {
			cart.Items[i].Quantity += quantity
			return cart.Clone(), nil
		}
	}
	snapshot := cloneProduct(p)
	cart.Items = append(cart.Items, domain.CartItem{
		ID:       s.next("cart_item"),
		Product:  &snapshot,
		Quantity: quantity,
		Price:    p.Price,
	})
	return cart.Clone(), nil
}

func (s *Store) UpdateCartItem(email string, itemID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartFor(email)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			return cart.Clone(), nil
		}
	}
	return nil, domain.ErrItemNotFound
}

// RemoveCartItem drops the line. Unknown ids leave the cart unchanged.
func (s *Store) RemoveCartItem(email string, itemID int64) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.cartFor(email)
	if err != nil {
		return nil, err
	}
	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	return cart.Clone(), nil
}

// ── Wishlist ──────────────────────────────────────────────────────────────────

func (s *Store) wishlistFor(email string) (*domain.Wishlist, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	w, ok := s.wishlists[u.ID]
	if !ok {
		w = &domain.Wishlist{ID: s.next("wishlist"), Items: []domain.WishlistItem{}}
		s.wishlists[u.ID] = w
	}
	return w, nil
}

func cloneWishlist(w *domain.Wishlist) *domain.Wishlist {
	out := &domain.Wishlist{ID: w.ID, Items: make([]domain.WishlistItem, len(w.Items))}
	for i, it := range w.Items {
		if it.Product != nil {
			p := cloneProduct(it.Product)
			it.Product = &p
		}
		out.Items[i] = it
	}
	return out
}

func (s *Store) Wishlist(email string) (*domain.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.wishlistFor(email)
	if err != nil {
		return nil, err
	}
	return cloneWishlist(w), nil
}

// AddToWishlist saves the product once. Saving it again is a no-op.
func (s *Store) AddToWishlist(email string, productID int64) (*domain.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.wishlistFor(email)
	if err != nil {
		return nil, err
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	for _, it := range w.Items {
		if it.Product != nil && it.Product.ID == productID {
			return cloneWishlist(w), nil
		}
	}
	snapshot := cloneProduct(p)
	w.Items = append(w.Items, domain.WishlistItem{ID: s.next("wishlist_item"), Product: &snapshot})
	return cloneWishlist(w), nil
}

func (s *Store) RemoveFromWishlist(email string, itemID int64) (*domain.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.wishlistFor(email)
	if err != nil {
		return nil, err
	}
	kept := w.Items[:0]
	for _, it := range w.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	w.Items = kept
	return cloneWishlist(w), nil
}

// ── Orders ────────────────────────────────────────────────────────────────────

// PlaceOrder snapshots the cart into a PENDING order and empties the cart.
func (s *Store) PlaceOrder(email string, req domain.OrderRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartFor(email)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	addr := req.ShippingAddress
	o := domain.Order{
		ID:                   s.next("order"),
		Items:                make([]domain.OrderLine, 0, len(cart.Items)),
		ShippingFullName:     addr.FullName,
		ShippingAddressLine1: addr.AddressLine1,
		ShippingAddressLine2: addr.AddressLine2,
		ShippingCity:         addr.City,
		ShippingState:        addr.State,
		ShippingPostalCode:   addr.PostalCode,
		ShippingCountry:      addr.Country,
		ShippingPhone:        addr.Phone,
		PaymentMethod:        req.PaymentMethod,
		Status:               domain.StatusPending,
		CreatedAt:            domain.Timestamp{Time: s.now().UTC()},
	}
	for _, it := range cart.Items {
		price := it.UnitPrice()
		o.Items = append(o.Items, domain.OrderLine{
			ID:       s.next("order_line"),
			Product:  it.Product,
			Quantity: it.Quantity,
			Price:    price,
		})
		o.TotalAmount += price * float64(it.Quantity)
	}
	s.orders[o.ID] = &storedOrder{userID: u.ID, order: o}
	cart.Items = []domain.CartItem{}
	return cloneOrder(o), nil
}

// Orders lists the user's orders, oldest first.
func (s *Store) Orders(email string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	return s.collect(func(so *storedOrder) bool { return so.userID == u.ID }), nil
}

// AllOrders lists every order, oldest first.
func (s *Store) AllOrders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(*storedOrder) bool { return true })
}

func (s *Store) collect(keep func(*storedOrder) bool) []domain.Order {
	out := make([]domain.Order, 0, len(s.orders))
	for _, so := range s.orders {
		if keep(so) {
			out = append(out, *cloneOrder(so.order))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ownedOrder returns the order if it belongs to email.
func (s *Store) ownedOrder(email string, id int64) (*storedOrder, error) {
	u, err := s.user(email)
	if err != nil {
		return nil, err
	}
	so, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if so.userID != u.ID {
		return nil, domain.ErrForbidden
	}
	return so, nil
}

func (s *Store) Order(email string, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	so, err := s.ownedOrder(email, id)
	if err != nil {
		return nil, err
	}
	return cloneOrder(so.order), nil
}

// CancelOrder cancels one of the user's PENDING orders.
func (s *Store) CancelOrder(email string, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	so, err := s.ownedOrder(email, id)
	if err != nil {
		return nil, err
	}
	if so.order.Status != domain.StatusPending {
		return nil, domain.ErrNotCancellable
	}
	so.order.Status = domain.StatusCancelled
	return cloneOrder(so.order), nil
}

// SetOrderStatus sets any known status without transition checks.
func (s *Store) SetOrderStatus(id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	so, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	so.order.Status = status
	return cloneOrder(so.order), nil
}

// ForceCancel cancels any order that is not already cancelled.
func (s *Store) ForceCancel(id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	so, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if so.order.Status == domain.StatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	so.order.Status = domain.StatusCancelled
	return cloneOrder(so.order), nil
}

func cloneOrder(o domain.Order) *domain.Order {
	c := o
	c.Items = make([]domain.OrderLine, len(o.Items))
	for i, line := range o.Items {
		if line.Product != nil {
			p := cloneProduct(line.Product)
			line.Product = &p
		}
		c.Items[i] = line
	}
	return &c
}
