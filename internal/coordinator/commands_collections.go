package coordinator

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/dreamware/shardgate/internal/storage"
)

// Single-key list, set, sorted set and hash commands.

// Lists

func (c *Coordinator) LIndex(ctx context.Context, key string, index int64) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.LIndex(ctx, key, index).Result()
	})
}

// LInsert inserts value "BEFORE" or "AFTER" pivot.
func (c *Coordinator) LInsert(ctx context.Context, key, op string, pivot, value interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.LInsert(ctx, key, op, pivot, value).Result()
	})
}

func (c *Coordinator) LLen(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.LLen(ctx, key).Result()
	})
}

func (c *Coordinator) LPop(ctx context.Context, key string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.LPop(ctx, key).Result()
	})
}

func (c *Coordinator) LPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.LPush(ctx, key, values...).Result()
	})
}

func (c *Coordinator) LPushX(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.LPushX(ctx, key, values...).Result()
	})
}

func (c *Coordinator) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.LRange(ctx, key, start, stop).Result()
	})
}

func (c *Coordinator) LRem(ctx context.Context, key string, count int64, value interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.LRem(ctx, key, count, value).Result()
	})
}

func (c *Coordinator) LSet(ctx context.Context, key string, index int64, value interface{}) error {
	_, err := Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.LSet(ctx, key, index, value).Result()
	})
	return err
}

func (c *Coordinator) LTrim(ctx context.Context, key string, start, stop int64) error {
	_, err := Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.LTrim(ctx, key, start, stop).Result()
	})
	return err
}

func (c *Coordinator) RPop(ctx context.Context, key string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.RPop(ctx, key).Result()
	})
}

func (c *Coordinator) RPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.RPush(ctx, key, values...).Result()
	})
}

func (c *Coordinator) RPushX(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.RPushX(ctx, key, values...).Result()
	})
}

// Sets

func (c *Coordinator) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.SAdd(ctx, key, members...).Result()
	})
}

func (c *Coordinator) SCard(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.SCard(ctx, key).Result()
	})
}

func (c *Coordinator) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.SIsMember(ctx, key, member).Result()
	})
}

func (c *Coordinator) SMembers(ctx context.Context, key string) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.SMembers(ctx, key).Result()
	})
}

func (c *Coordinator) SPop(ctx context.Context, key string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.SPop(ctx, key).Result()
	})
}

func (c *Coordinator) SRandMember(ctx context.Context, key string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.SRandMember(ctx, key).Result()
	})
}

func (c *Coordinator) SRem(ctx context.Context, key string, members ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.SRem(ctx, key, members...).Result()
	})
}

// Sorted sets

func (c *Coordinator) ZAdd(ctx context.Context, key string, members ...redis.Z) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZAdd(ctx, key, members...).Result()
	})
}

func (c *Coordinator) ZCard(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZCard(ctx, key).Result()
	})
}

func (c *Coordinator) ZCount(ctx context.Context, key, min, max string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZCount(ctx, key, min, max).Result()
	})
}

func (c *Coordinator) ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (float64, error) {
		return conn.ZIncrBy(ctx, key, increment, member).Result()
	})
}

func (c *Coordinator) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.ZRange(ctx, key, start, stop).Result()
	})
}

func (c *Coordinator) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]redis.Z, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]redis.Z, error) {
		return conn.ZRangeWithScores(ctx, key, start, stop).Result()
	})
}

func (c *Coordinator) ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.ZRangeByScore(ctx, key, opt).Result()
	})
}

func (c *Coordinator) ZRank(ctx context.Context, key, member string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZRank(ctx, key, member).Result()
	})
}

func (c *Coordinator) ZRem(ctx context.Context, key string, members ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZRem(ctx, key, members...).Result()
	})
}

func (c *Coordinator) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZRemRangeByRank(ctx, key, start, stop).Result()
	})
}

func (c *Coordinator) ZRemRangeByScore(ctx context.Context, key, min, max string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZRemRangeByScore(ctx, key, min, max).Result()
	})
}

func (c *Coordinator) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.ZRevRange(ctx, key, start, stop).Result()
	})
}

func (c *Coordinator) ZRevRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.ZRevRangeByScore(ctx, key, opt).Result()
	})
}

func (c *Coordinator) ZRevRank(ctx context.Context, key, member string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.ZRevRank(ctx, key, member).Result()
	})
}

func (c *Coordinator) ZScore(ctx context.Context, key, member string) (float64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (float64, error) {
		return conn.ZScore(ctx, key, member).Result()
	})
}

// Hashes

func (c *Coordinator) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.HDel(ctx, key, fields...).Result()
	})
}

func (c *Coordinator) HExists(ctx context.Context, key, field string) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.HExists(ctx, key, field).Result()
	})
}

func (c *Coordinator) HGet(ctx context.Context, key, field string) (string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (string, error) {
		return conn.HGet(ctx, key, field).Result()
	})
}

func (c *Coordinator) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (map[string]string, error) {
		return conn.HGetAll(ctx, key).Result()
	})
}

func (c *Coordinator) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.HIncrBy(ctx, key, field, incr).Result()
	})
}

func (c *Coordinator) HIncrByFloat(ctx context.Context, key, field string, incr float64) (float64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (float64, error) {
		return conn.HIncrByFloat(ctx, key, field, incr).Result()
	})
}

func (c *Coordinator) HKeys(ctx context.Context, key string) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.HKeys(ctx, key).Result()
	})
}

func (c *Coordinator) HLen(ctx context.Context, key string) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.HLen(ctx, key).Result()
	})
}

func (c *Coordinator) HMGet(ctx context.Context, key string, fields ...string) ([]interface{}, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]interface{}, error) {
		return conn.HMGet(ctx, key, fields...).Result()
	})
}

// HSet accepts field/value pairs, a map or a struct, as go-redis does.
func (c *Coordinator) HSet(ctx context.Context, key string, values ...interface{}) (int64, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (int64, error) {
		return conn.HSet(ctx, key, values...).Result()
	})
}

func (c *Coordinator) HSetNX(ctx context.Context, key, field string, value interface{}) (bool, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) (bool, error) {
		return conn.HSetNX(ctx, key, field, value).Result()
	})
}

func (c *Coordinator) HVals(ctx context.Context, key string) ([]string, error) {
	return Do(ctx, c, key, func(ctx context.Context, conn storage.Conn) ([]string, error) {
		return conn.HVals(ctx, key).Result()
	})
}
