package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter keeps one integer per tenant per calendar day. SETNX seeds
// the key from the store count, INCR claims a slot atomically, so two
// concurrent booking requests can never both land on the last free slot.
type RedisCounter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCounter(client *redis.Client, ttl time.Duration) *RedisCounter {
	return &RedisCounter{client: client, ttl: ttl}
}

func dayKey(tenantID int64, day time.Time) string {
	return fmt.Sprintf("visitquota:%d:%s", tenantID, day.Format("2006-01-02"))
}

func (c *RedisCounter) Increment(ctx context.Context, tenantID int64, day time.Time, seed int) (int, error) {
	key := dayKey(tenantID, day)

	set, err := c.client.SetNX(ctx, key, seed, c.ttl).Result()
	if err != nil {
		return 0, err
	}
	if set {
		// Fresh key: make sure it outlives the visit day even if the
		// configured TTL is short.
		if until := time.Until(day.Add(48 * time.Hour)); until > c.ttl {
			c.client.Expire(ctx, key, until)
		}
	}

	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// decrIfExists avoids creating a key at -1: a missing counter means the day
// was never seeded (or the key expired), and the next Increment must seed
// from the store count instead.
var decrIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('DECR', KEYS[1])
end
return 0`)

func (c *RedisCounter) Decrement(ctx context.Context, tenantID int64, day time.Time) error {
	return decrIfExists.Run(ctx, c.client, []string{dayKey(tenantID, day)}).Err()
}

var _ Counter = (*RedisCounter)(nil)
