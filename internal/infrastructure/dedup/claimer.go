package dedup

import (
	"context"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "proplay:"

// RedisClaimer claims delivery keys with SET NX so that concurrent
// dispatchers across instances deliver each reminder once.
type RedisClaimer struct {
	client redis.Cmdable
	prefix string
}

func NewRedisClaimer(client redis.Cmdable, prefix string) *RedisClaimer {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisClaimer{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL. Callers own the returned client.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, crerr.Wrap(err, "parse REDIS_URL")
	}
	return redis.NewClient(opts), nil
}

func (c *RedisClaimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, crerr.Wrapf(err, "claim %s", key)
	}
	return ok, nil
}

func (c *RedisClaimer) Release(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return crerr.Wrapf(err, "release %s", key)
	}
	return nil
}

// MemoryClaimer is the single-instance fallback when no Redis is configured.
type MemoryClaimer struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

func NewMemoryClaimer() *MemoryClaimer {
	return &MemoryClaimer{
		claims: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (c *MemoryClaimer) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if expiresAt, ok := c.claims[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	c.claims[key] = now.Add(ttl)

	for k, expiresAt := range c.claims {
		if !now.Before(expiresAt) {
			delete(c.claims, k)
		}
	}
	return true, nil
}

func (c *MemoryClaimer) Release(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.claims, key)
	c.mu.Unlock()
	return nil
}
