package cache

import (
	"context"
	"fmt"
)

// Cart key prefixes. Carts are hashes of product ID -> quantity.
const (
	userCartKeyPrefix  = "cart:user:"
	guestCartKeyPrefix = "cart:guest:"
)

// UserCartKey returns the Redis key for a user's cart hash.
func UserCartKey(userID string) string {
	return userCartKeyPrefix + userID
}

// GuestCartKey returns the Redis key for a guest cart hash.
func GuestCartKey(guestID string) string {
	return guestCartKeyPrefix + guestID
}

// GetUserCart returns the user's cart as product ID -> quantity.
func (c *Cache) GetUserCart(ctx context.Context, userID string) (map[string]string, error) {
	items, err := c.client.HGetAll(ctx, UserCartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read user cart: %w", err)
	}
	return items, nil
}

// SetGuestCartItem writes a single guest cart entry.
func (c *Cache) SetGuestCartItem(ctx context.Context, guestID, productID, quantity string) error {
	if err := c.client.HSet(ctx, GuestCartKey(guestID), productID, quantity).Err(); err != nil {
		return fmt.Errorf("failed to set guest cart item: %w", err)
	}
	return nil
}

// MergeGuestCart copies every guest cart entry over the user's cart and
// removes the guest cart. Per item the guest value wins; entries only the
// user had are kept.
func (c *Cache) MergeGuestCart(ctx context.Context, guestID, userID string) error {
	guestKey := GuestCartKey(guestID)

	items, err := c.client.HGetAll(ctx, guestKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read guest cart: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	fields := make(map[string]any, len(items))
	for productID, quantity := range items {
		fields[productID] = quantity
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, UserCartKey(userID), fields)
	pipe.Del(ctx, guestKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to merge guest cart: %w", err)
	}

	return nil
}
