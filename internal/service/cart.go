package service

import (
	"context"

	"github.com/mallfront/mallfront/internal/cache"
	"github.com/mallfront/mallfront/internal/metrics"
)

// PostLoginHook runs after a successful credential check. It exists as its
// own interface so the cart merge can be exercised without going through
// the login flow.
type PostLoginHook interface {
	OnSuccessfulLogin(ctx context.Context, userID, guestCartID string) error
}

// CartService owns the server-side cart representation in Redis.
type CartService struct {
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewCartService creates a new CartService.
func NewCartService(c *cache.Cache, recorder metrics.Recorder) *CartService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CartService{
		cache:   c,
		metrics: recorder,
	}
}

// MergeGuestCart folds the guest cart into the user's cart, guest value
// winning per item, and discards the guest cart.
func (s *CartService) MergeGuestCart(ctx context.Context, guestCartID, userID string) error {
	if err := s.cache.MergeGuestCart(ctx, guestCartID, userID); err != nil {
		return err
	}
	s.metrics.IncCartMerged()
	return nil
}

// OnSuccessfulLogin implements PostLoginHook. A missing guest cart ID is
// a no-op: the visitor never put anything in a cart.
func (s *CartService) OnSuccessfulLogin(ctx context.Context, userID, guestCartID string) error {
	if guestCartID == "" {
		return nil
	}
	return s.MergeGuestCart(ctx, guestCartID, userID)
}
