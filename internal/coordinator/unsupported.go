package coordinator

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Commands below are not bound to a single key. They span keys that may live
// on different shards, or address a server rather than a key, so there is no
// shard to route them to. Each returns ErrUnsupportedOperation immediately,
// regardless of shard state, and never contacts a node.

// Multi-key keyspace commands

func (c *Coordinator) Keys(ctx context.Context, pattern string) ([]string, error) {
	return nil, unsupported("KEYS")
}

func (c *Coordinator) MGet(ctx context.Context, keys ...string) ([]interface{}, error) {
	return nil, unsupported("MGET")
}

func (c *Coordinator) MSet(ctx context.Context, values ...interface{}) error {
	return unsupported("MSET")
}

func (c *Coordinator) MSetNX(ctx context.Context, values ...interface{}) (bool, error) {
	return false, unsupported("MSETNX")
}

func (c *Coordinator) Rename(ctx context.Context, key, newkey string) error {
	return unsupported("RENAME")
}

func (c *Coordinator) RenameNX(ctx context.Context, key, newkey string) (bool, error) {
	return false, unsupported("RENAMENX")
}

func (c *Coordinator) RandomKey(ctx context.Context) (string, error) {
	return "", unsupported("RANDOMKEY")
}

func (c *Coordinator) BitOp(ctx context.Context, op, destKey string, keys ...string) (int64, error) {
	return 0, unsupported("BITOP")
}

// Multi-key list commands

func (c *Coordinator) BLPop(ctx context.Context, timeout time.Duration, keys ...string) ([]string, error) {
	return nil, unsupported("BLPOP")
}

func (c *Coordinator) BRPop(ctx context.Context, timeout time.Duration, keys ...string) ([]string, error) {
	return nil, unsupported("BRPOP")
}

func (c *Coordinator) BRPopLPush(ctx context.Context, source, destination string, timeout time.Duration) (string, error) {
	return "", unsupported("BRPOPLPUSH")
}

func (c *Coordinator) RPopLPush(ctx context.Context, source, destination string) (string, error) {
	return "", unsupported("RPOPLPUSH")
}

// Multi-key set and sorted set commands

func (c *Coordinator) SDiff(ctx context.Context, keys ...string) ([]string, error) {
	return nil, unsupported("SDIFF")
}

func (c *Coordinator) SDiffStore(ctx context.Context, destination string, keys ...string) (int64, error) {
	return 0, unsupported("SDIFFSTORE")
}

func (c *Coordinator) SInter(ctx context.Context, keys ...string) ([]string, error) {
	return nil, unsupported("SINTER")
}

func (c *Coordinator) SInterStore(ctx context.Context, destination string, keys ...string) (int64, error) {
	return 0, unsupported("SINTERSTORE")
}

func (c *Coordinator) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	return nil, unsupported("SUNION")
}

func (c *Coordinator) SUnionStore(ctx context.Context, destination string, keys ...string) (int64, error) {
	return 0, unsupported("SUNIONSTORE")
}

func (c *Coordinator) SMove(ctx context.Context, source, destination string, member interface{}) (bool, error) {
	return false, unsupported("SMOVE")
}

func (c *Coordinator) ZInterStore(ctx context.Context, destination string, store *redis.ZStore) (int64, error) {
	return 0, unsupported("ZINTERSTORE")
}

func (c *Coordinator) ZUnionStore(ctx context.Context, destination string, store *redis.ZStore) (int64, error) {
	return 0, unsupported("ZUNIONSTORE")
}

// Pub/sub, transactions and scripting

func (c *Coordinator) Publish(ctx context.Context, channel string, message interface{}) (int64, error) {
	return 0, unsupported("PUBLISH")
}

func (c *Coordinator) Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error) {
	return nil, unsupported("SUBSCRIBE")
}

func (c *Coordinator) Pipeline() (redis.Pipeliner, error) {
	return nil, unsupported("PIPELINE")
}

func (c *Coordinator) TxPipeline() (redis.Pipeliner, error) {
	return nil, unsupported("MULTI")
}

func (c *Coordinator) Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	return unsupported("WATCH")
}

func (c *Coordinator) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return nil, unsupported("EVAL")
}

func (c *Coordinator) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) (interface{}, error) {
	return nil, unsupported("EVALSHA")
}

func (c *Coordinator) ScriptLoad(ctx context.Context, script string) (string, error) {
	return "", unsupported("SCRIPT LOAD")
}

// Server administration

func (c *Coordinator) Time(ctx context.Context) (time.Time, error) {
	return time.Time{}, unsupported("TIME")
}

func (c *Coordinator) DBSize(ctx context.Context) (int64, error) {
	return 0, unsupported("DBSIZE")
}

func (c *Coordinator) FlushAll(ctx context.Context) error {
	return unsupported("FLUSHALL")
}

func (c *Coordinator) FlushDB(ctx context.Context) error {
	return unsupported("FLUSHDB")
}

func (c *Coordinator) Info(ctx context.Context, section ...string) (string, error) {
	return "", unsupported("INFO")
}

func (c *Coordinator) Ping(ctx context.Context) error {
	return unsupported("PING")
}

func (c *Coordinator) Echo(ctx context.Context, message interface{}) (string, error) {
	return "", unsupported("ECHO")
}

func (c *Coordinator) Save(ctx context.Context) error {
	return unsupported("SAVE")
}

func (c *Coordinator) BgSave(ctx context.Context) error {
	return unsupported("BGSAVE")
}

func (c *Coordinator) BgRewriteAOF(ctx context.Context) error {
	return unsupported("BGREWRITEAOF")
}

func (c *Coordinator) LastSave(ctx context.Context) (int64, error) {
	return 0, unsupported("LASTSAVE")
}

func (c *Coordinator) Shutdown(ctx context.Context) error {
	return unsupported("SHUTDOWN")
}

func (c *Coordinator) SlaveOf(ctx context.Context, host, port string) error {
	return unsupported("SLAVEOF")
}

func (c *Coordinator) ConfigGet(ctx context.Context, parameter string) (map[string]string, error) {
	return nil, unsupported("CONFIG GET")
}

func (c *Coordinator) ConfigSet(ctx context.Context, parameter, value string) error {
	return unsupported("CONFIG SET")
}

func (c *Coordinator) ClientList(ctx context.Context) (string, error) {
	return "", unsupported("CLIENT LIST")
}

func (c *Coordinator) ClientKill(ctx context.Context, ipPort string) error {
	return unsupported("CLIENT KILL")
}

func (c *Coordinator) ClientGetName(ctx context.Context) (string, error) {
	return "", unsupported("CLIENT GETNAME")
}

func (c *Coordinator) ClientSetName(ctx context.Context, name string) error {
	return unsupported("CLIENT SETNAME")
}
