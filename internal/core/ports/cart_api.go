package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// CartAPI is the server cart. Every call returns the full authoritative cart.
type CartAPI interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (*domain.Cart, error)
}

// WishlistAPI is the server wishlist. Every call returns the full wishlist.
type WishlistAPI interface {
	GetWishlist(ctx context.Context) (*domain.Wishlist, error)
	AddToWishlist(ctx context.Context, productID int64) (*domain.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, itemID int64) (*domain.Wishlist, error)
}
