package coordinator

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dreamware/shardgate/internal/storage"
)

// Single-key string, bit and keyspace commands. Each one routes through Do,
// so all of them share the same failover behavior.

// Get returns the value at key, or storage.ErrKeyNotFound.
func (c *Coordinator) Get(ctx context.Context, key string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.Get(ctx, key).Result()
	})
}

// Set stores value at key. A zero expiration keeps the key forever.
func (c *Coordinator) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	_, err := Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.Set(ctx, key, value, expiration).Result()
	})
	return err
}

func (c *Coordinator) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.SetNX(ctx, key, value, expiration).Result()
	})
}

func (c *Coordinator) SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	_, err := Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.SetEx(ctx, key, value, expiration).Result()
	})
	return err
}

func (c *Coordinator) GetSet(ctx context.Context, key string, value interface{}) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.GetSet(ctx, key, value).Result()
	})
}

func (c *Coordinator) Append(ctx context.Context, key, value string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.Append(ctx, key, value).Result()
	})
}

func (c *Coordinator) GetRange(ctx context.Context, key string, start, end int64) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.GetRange(ctx, key, start, end).Result()
	})
}

func (c *Coordinator) SetRange(ctx context.Context, key string, offset int64, value string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.SetRange(ctx, key, offset, value).Result()
	})
}

func (c *Coordinator) StrLen(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.StrLen(ctx, key).Result()
	})
}

func (c *Coordinator) Incr(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.Incr(ctx, key).Result()
	})
}

func (c *Coordinator) IncrBy(ctx context.Context, key string, value int64) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.IncrBy(ctx, key, value).Result()
	})
}

func (c *Coordinator) IncrByFloat(ctx context.Context, key string, value float64) (float64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (float64, error) {
		return conn.IncrByFloat(ctx, key, value).Result()
	})
}

func (c *Coordinator) Decr(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.Decr(ctx, key).Result()
	})
}

func (c *Coordinator) DecrBy(ctx context.Context, key string, value int64) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.DecrBy(ctx, key, value).Result()
	})
}

func (c *Coordinator) GetBit(ctx context.Context, key string, offset int64) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.GetBit(ctx, key, offset).Result()
	})
}

func (c *Coordinator) SetBit(ctx context.Context, key string, offset int64, value int) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.SetBit(ctx, key, offset, value).Result()
	})
}

// BitCount counts set bits; a nil bitCount covers the whole value.
func (c *Coordinator) BitCount(ctx context.Context, key string, bitCount *redis.BitCount) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.BitCount(ctx, key, bitCount).Result()
	})
}

// Del deletes exactly one key. Deleting several keys at once could touch
// several shards and is rejected.
func (c *Coordinator) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) != 1 {
		return 0, unsupported("DEL with multiple keys")
	}
	key := keys[0]
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.Del(ctx, key).Result()
	})
}

// Exists checks exactly one key; see Del.
func (c *Coordinator) Exists(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) != 1 {
		return 0, unsupported("EXISTS with multiple keys")
	}
	key := keys[0]
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.Exists(ctx, key).Result()
	})
}

func (c *Coordinator) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.Expire(ctx, key, expiration).Result()
	})
}

func (c *Coordinator) ExpireAt(ctx context.Context, key string, tm time.Time) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.ExpireAt(ctx, key, tm).Result()
	})
}

func (c *Coordinator) PExpire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.PExpire(ctx, key, expiration).Result()
	})
}

func (c *Coordinator) PExpireAt(ctx context.Context, key string, tm time.Time) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.PExpireAt(ctx, key, tm).Result()
	})
}

func (c *Coordinator) Persist(ctx context.Context, key string) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.Persist(ctx, key).Result()
	})
}

func (c *Coordinator) TTL(ctx context.Context, key string) (time.Duration, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (time.Duration, error) {
		return conn.TTL(ctx, key).Result()
	})
}

func (c *Coordinator) PTTL(ctx context.Context, key string) (time.Duration, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (time.Duration, error) {
		return conn.PTTL(ctx, key).Result()
	})
}

// Type returns the type name of the value at key ("none" if absent).
func (c *Coordinator) Type(ctx context.Context, key string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.Type(ctx, key).Result()
	})
}
