package cache

import (
	"context"
	"fmt"
	"strconv"
)

// historyKeyPrefix is the Redis key prefix for per-user browsing history lists.
const historyKeyPrefix = "history:"

// HistoryKey returns the Redis key for a user's browsing history list.
func HistoryKey(userID string) string {
	return historyKeyPrefix + userID
}

// PushHistory prepends a product ID to the user's browsing history and
// truncates the list to `limit` entries. Re-viewing a product moves it to
// the front instead of duplicating it. The three commands run in one
// pipeline so a concurrent push cannot observe an over-long list.
func (c *Cache) PushHistory(ctx context.Context, userID string, productID int64, limit int64) error {
	key := HistoryKey(userID)
	member := strconv.FormatInt(productID, 10)

	pipe := c.client.TxPipeline()
	pipe.LRem(ctx, key, 0, member)
	pipe.LPush(ctx, key, member)
	pipe.LTrim(ctx, key, 0, limit-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push history: %w", err)
	}

	return nil
}

// GetHistory returns up to `limit` product IDs from the user's browsing
// history, most recent first.
func (c *Cache) GetHistory(ctx context.Context, userID string, limit int64) ([]int64, error) {
	members, err := c.client.LRange(ctx, HistoryKey(userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			// Skip entries written by an incompatible client.
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}
