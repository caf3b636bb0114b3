package domain

// CartItem is one line of the shopping cart.
type CartItem struct {
	ID       int64    `json:"id"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price"`
}

// UnitPrice is the product price when a product reference is present,
// otherwise the price recorded on the line.
func (i CartItem) UnitPrice() float64 {
	if i.Product != nil && i.Product.Price != 0 {
		return i.Product.Price
	}
	return i.Price
}

// Cart mirrors the server-held cart. It is always replaced wholesale by the
// server's response and never patched locally.
type Cart struct {
	ID    int64      `json:"id,omitempty"`
	Items []CartItem `json:"items"`
}

// EmptyCart is the local default before the first sync.
func EmptyCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

// TotalItems sums quantities across all lines. Nil carts count as zero.
func (c *Cart) TotalItems() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums unit price × quantity across all lines.
func (c *Cart) TotalPrice() float64 {
	if c == nil {
		return 0
	}
	var total float64
	for _, it := range c.Items {
		total += it.UnitPrice() * float64(it.Quantity)
	}
	return total
}

// Item returns the line with the given id.
func (c *Cart) Item(id int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CartItem{}, false
}

// ItemForProduct returns the line holding the given product.
func (c *Cart) ItemForProduct(productID int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, it := range c.Items {
		if it.Product != nil && it.Product.ID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := &Cart{ID: c.ID, Items: make([]CartItem, len(c.Items))}
	for i, it := range c.Items {
		if it.Product != nil {
			p := *it.Product
			it.Product = &p
		}
		out.Items[i] = it
	}
	return out
}

// WishlistItem is one saved product.
type WishlistItem struct {
	ID      int64    `json:"id"`
	Product *Product `json:"product,omitempty"`
}

// Wishlist mirrors the server-held wishlist.
type Wishlist struct {
	ID    int64          `json:"id,omitempty"`
	Items []WishlistItem `json:"items"`
}
