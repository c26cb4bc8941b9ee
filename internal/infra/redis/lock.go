// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"purchase-registry/internal/domain/ports/repository"
)

var _ repository.Locker = (*RedisLocker)(nil)

const lockPrefix = "registry:lock:"

// RedisLocker is a SETNX lock shared by every replica. The TTL must exceed
// the longest critical section (one marketplace call plus one insert).
type RedisLocker struct {
	cli   *redis.Client
	ttl   time.Duration
	retry time.Duration
	log   *zerolog.Logger
}

func NewLocker(c *Client, ttl time.Duration, logger *zerolog.Logger) *RedisLocker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisLocker{cli: c.cli, ttl: ttl, retry: 50 * time.Millisecond, log: logger}
}

// Lock polls SETNX until the key is free or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := lockPrefix + key
	token := uuid.NewString()
	for {
		ok, err := l.cli.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
	return func() {
		// release even if the caller's ctx is already cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.unlock(ctx, k, token); err != nil {
			l.log.Warn().Err(err).Msg("redis unlock failed; lock will expire by ttl")
		}
	}, nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}
