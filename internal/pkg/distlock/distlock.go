// Package distlock provides a Redis-backed distributed lock, used to
// serialize warehouse refreshes across dashboard replicas.
package distlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a single-use distributed lock. Safe for use from one goroutine;
// concurrent holders need separate Lock instances.
type Lock interface {
	// Acquire tries to take the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if this instance still owns it.
	Release(ctx context.Context) error
}

// RedisLock implements Lock via SET NX with TTL. A random ownership value
// and a Lua release script prevent releasing a lock another process took
// after ours expired.
type RedisLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// NewRedisLock creates a lock on the given key. The TTL bounds how long a
// crashed holder can block others.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	b := make([]byte, 16)
	rand.Read(b)
	return &RedisLock{
		client: client,
		key:    "santoor:lock:" + key,
		value:  hex.EncodeToString(b),
		ttl:    ttl,
	}
}

// Acquire tries to take the lock. Returns true if successful.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.value, l.ttl).Result()
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Release releases the lock only if this instance still owns it.
func (l *RedisLock) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Err()
}
