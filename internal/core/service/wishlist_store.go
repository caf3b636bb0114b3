package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// WishlistStore mirrors the server wishlist the same way CartStore mirrors
// the cart: every call replaces local state with the server's response.
// The cached list is dropped on every identity transition.
type WishlistStore struct {
	api     ports.WishlistAPI
	session IdentitySource
	notify  ports.Notifier
	log     zerolog.Logger

	mu     sync.RWMutex
	list   *domain.Wishlist
	gen    uint64
	detach func()
}

func NewWishlistStore(api ports.WishlistAPI, session IdentitySource, notify ports.Notifier, log zerolog.Logger) *WishlistStore {
	if notify == nil {
		notify = ports.NotifierFunc(func(domain.Notice) {})
	}
	w := &WishlistStore{api: api, session: session, notify: notify, log: log}
	detach := session.Subscribe(w.onIdentity)
	w.mu.Lock()
	w.detach = detach
	w.mu.Unlock()
	return w
}

// Close stops following the session.
func (w *WishlistStore) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.detach != nil {
		w.detach()
		w.detach = nil
	}
}

func (w *WishlistStore) onIdentity(*domain.Identity) {
	w.mu.Lock()
	w.gen++
	w.list = nil
	w.mu.Unlock()
}

func (w *WishlistStore) generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gen
}

// Wishlist returns the last fetched wishlist, or nil.
func (w *WishlistStore) Wishlist() *domain.Wishlist {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.list == nil {
		return nil
	}
	out := *w.list
	out.Items = append([]domain.WishlistItem(nil), w.list.Items...)
	return &out
}

// store keeps list unless the identity changed since gen was taken.
func (w *WishlistStore) store(gen uint64, list *domain.Wishlist) bool {
	if list == nil {
		list = &domain.Wishlist{Items: []domain.WishlistItem{}}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return false
	}
	w.list = list
	return true
}

// Show fetches the wishlist.
func (w *WishlistStore) Show(ctx context.Context) (*domain.Wishlist, error) {
	if w.session.Identity() == nil {
		return nil, domain.ErrNotAuthenticated
	}
	gen := w.generation()
	list, err := w.api.GetWishlist(ctx)
	if err != nil {
		return nil, err
	}
	if !w.store(gen, list) {
		return nil, domain.ErrNotAuthenticated
	}
	return w.Wishlist(), nil
}

func (w *WishlistStore) mutate(op, okMsg, failMsg string, call func() (*domain.Wishlist, error)) bool {
	if w.session.Identity() == nil {
		w.notify.Notify(domain.Failure("Please login to use your wishlist"))
		return false
	}
	gen := w.generation()
	list, err := call()
	if err != nil {
		w.log.Warn().Err(err).Str("op", op).Msg("wishlist mutation failed")
		w.notify.Notify(domain.Failure(messageOr(err, failMsg)))
		return false
	}
	if !w.store(gen, list) {
		w.log.Info().Str("op", op).Msg("session changed during wishlist call; response discarded")
		return false
	}
	w.notify.Notify(domain.Success(okMsg))
	return true
}

func (w *WishlistStore) Add(ctx context.Context, productID int64) bool {
	return w.mutate("add", "Added to wishlist", "Failed to add to wishlist", func() (*domain.Wishlist, error) {
		return w.api.AddToWishlist(ctx, productID)
	})
}

func (w *WishlistStore) Remove(ctx context.Context, itemID int64) bool {
	return w.mutate("remove", "Removed from wishlist", "Failed to remove from wishlist", func() (*domain.Wishlist, error) {
		return w.api.RemoveFromWishlist(ctx, itemID)
	})
}
