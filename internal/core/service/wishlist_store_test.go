package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
)

type stubWishlistAPI struct {
	mu    sync.Mutex
	items []domain.WishlistItem
	calls int
	// before runs at the start of every call.
	before func()
}

func (a *stubWishlistAPI) list() *domain.Wishlist {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return &domain.Wishlist{ID: 1, Items: append([]domain.WishlistItem(nil), a.items...)}
}

func (a *stubWishlistAPI) GetWishlist(context.Context) (*domain.Wishlist, error) {
	if a.before != nil {
		a.before()
	}
	return a.list(), nil
}

func (a *stubWishlistAPI) AddToWishlist(_ context.Context, productID int64) (*domain.Wishlist, error) {
	if a.before != nil {
		a.before()
	}
	a.mu.Lock()
	p := domain.Product{ID: productID}
	a.items = append(a.items, domain.WishlistItem{ID: int64(len(a.items) + 1), Product: &p})
	a.mu.Unlock()
	return a.list(), nil
}

func (a *stubWishlistAPI) RemoveFromWishlist(_ context.Context, itemID int64) (*domain.Wishlist, error) {
	a.mu.Lock()
	out := a.items[:0]
	for _, it := range a.items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	a.items = out
	a.mu.Unlock()
	return a.list(), nil
}

func TestWishlistStore_RequiresIdentity(t *testing.T) {
	api := &stubWishlistAPI{}
	notes := &recordingNotifier{}
	w := NewWishlistStore(api, &fixedSession{}, notes, zerolog.Nop())
	defer w.Close()

	if w.Add(context.Background(), 7) {
		t.Fatalf("expected add to fail without identity")
	}
	if notes.last().Level != domain.NoticeError {
		t.Fatalf("expected failure notice, got %+v", notes.last())
	}
	if _, err := w.Show(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no network calls, got %d", api.calls)
	}
}

func TestWishlistStore_LogoutDropsCachedList(t *testing.T) {
	api := &stubWishlistAPI{}
	session := &fixedSession{id: shopper()}
	w := NewWishlistStore(api, session, &recordingNotifier{}, zerolog.Nop())
	defer w.Close()

	if !w.Add(context.Background(), 7) {
		t.Fatalf("expected add to succeed")
	}
	if got := w.Wishlist(); got == nil || len(got.Items) != 1 {
		t.Fatalf("expected one cached item, got %+v", got)
	}

	session.setIdentity(nil)
	if got := w.Wishlist(); got != nil {
		t.Fatalf("expected cached list dropped on logout, got %+v", got)
	}
}

func TestWishlistStore_StaleResponseDiscarded(t *testing.T) {
	api := &stubWishlistAPI{}
	session := &fixedSession{id: shopper()}
	w := NewWishlistStore(api, session, &recordingNotifier{}, zerolog.Nop())
	defer w.Close()

	// The session ends while the add is in flight.
	api.before = func() {
		api.before = nil
		session.setIdentity(nil)
	}
	if w.Add(context.Background(), 7) {
		t.Fatalf("expected stale response to be discarded")
	}
	if got := w.Wishlist(); got != nil {
		t.Fatalf("stale response must not repopulate a signed-out wishlist, got %+v", got)
	}
}

func TestWishlistStore_CloseStopsFollowing(t *testing.T) {
	session := &fixedSession{id: shopper()}
	w := NewWishlistStore(&stubWishlistAPI{}, session, &recordingNotifier{}, zerolog.Nop())

	if _, err := w.Show(context.Background()); err != nil {
		t.Fatalf("show: %v", err)
	}
	w.Close()
	session.setIdentity(nil)
	if w.Wishlist() == nil {
		t.Fatalf("closed store must not react to identity changes")
	}
}
