package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mesa-rpg/api/internal/database"
)

const (
	lockPrefix     = "mesa:idlock:"
	defaultLockTTL = 5 * time.Second
	lockRetryDelay = 20 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ database.Locker = (*Client)(nil)

func lockKey(name string) string {
	return lockPrefix + name
}

// Lock takes the named lock, polling until it is free or ctx ends. The lock
// expires on its own after the configured TTL. The returned func releases it
// and is safe to call once the caller's context is gone. If ctx ends first
// the error wraps database.ErrLockTimeout.
func (c *Client) Lock(ctx context.Context, name string) (func(), error) {
	key := lockKey(name)
	token := uuid.NewString()

	for {
		ok, err := c.SetNX(ctx, key, token, c.lockTTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w %s: %w", database.ErrLockTimeout, key, ctx.Err())
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %s: %w", database.ErrLockTimeout, key, ctx.Err())
		case <-time.After(lockRetryDelay):
		}
	}

	return func() {
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, c.Client, []string{key}, token).Err(); err != nil {
			log.Printf("[Redis] Failed to release lock %s: %v", key, err)
		}
	}, nil
}
