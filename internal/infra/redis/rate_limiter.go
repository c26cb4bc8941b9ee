package redis

import (
	"context"
	"fmt"
	"time"
)

const attachKeyPrefix = "registry:attach:"

// RateLimiter caps registration attempts per identity with a fixed window:
// INCR the identity's counter and start the window on the first hit.
type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow reports whether the attempt counted under key stays within limit for
// the current window. A non-positive limit never allows.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("count attach attempt: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("start attach window: %w", err)
		}
	}
	return count <= int64(limit), nil
}

// AttachKey is the counter key for one identity's registration attempts.
func AttachKey(identity string) string {
	return attachKeyPrefix + identity
}
