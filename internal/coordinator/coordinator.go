package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dreamware/shardgate/internal/discovery"
	"github.com/dreamware/shardgate/internal/shard"
	"github.com/dreamware/shardgate/internal/storage"
)

var (
	// ErrShardConnectivity is returned when a shard cannot be reached on the
	// first attempt and again after its owner was re-resolved.
	ErrShardConnectivity = errors.New("shard connectivity failure")

	// ErrUnsupportedOperation is returned for any command that is not bound
	// to exactly one key.
	ErrUnsupportedOperation = errors.New("operation not supported by the shard coordinator")
)

// Options configures a Coordinator. Zero values select production defaults.
type Options struct {
	// Dialer connects to discovery members. Default: discovery.RedisDialer.
	Dialer discovery.Dialer

	// ConnFactory opens shard node connections. Default: storage.NewRedisConn.
	ConnFactory storage.Factory
}

// Coordinator routes single-key commands to the shard that owns the key and
// re-resolves the owner once through discovery when the shard is unreachable.
//
// Request flow:
//
//	command(key) ─► ShardTable.OwnerForKey ─► attempt on owner
//	                                              │
//	                         connectivity failure ┤ anything else ─► return
//	                                              ▼
//	                       ShardTable.RefreshOwner (discovery lookup)
//	                                              │
//	                                              ▼
//	                          second attempt ─► return result or failure
//
// Commands that span keys or address the server rather than a key are
// rejected with ErrUnsupportedOperation; see unsupported.go.
//
// Thread Safety:
// A Coordinator is safe for concurrent use.
type Coordinator struct {
	discovery *discovery.Client
	table     *ShardTable
}

// New connects to the discovery tier at sentinelAddrs (in priority order),
// lists the shards and returns a ready Coordinator.
//
// Example:
//
//	coord, err := coordinator.New(ctx, []string{"10.0.0.1:26379", "10.0.0.2:26379"}, coordinator.Options{})
//	if err != nil {
//	    log.Fatalf("start coordinator: %v", err)
//	}
//	defer coord.Close()
//	_ = coord.Set(ctx, "user{42}:name", "alice", 0)
func New(ctx context.Context, sentinelAddrs []string, opts Options) (*Coordinator, error) {
	client, err := discovery.NewClient(sentinelAddrs, opts.Dialer)
	if err != nil {
		return nil, err
	}

	table, err := NewShardTable(ctx, client, opts.ConnFactory)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Coordinator{discovery: client, table: table}, nil
}

// Table returns the shard table.
func (c *Coordinator) Table() *ShardTable {
	return c.table
}

// DiscoveryAddrs returns the discovery addresses still in rotation.
func (c *Coordinator) DiscoveryAddrs() []string {
	return c.discovery.Addrs()
}

// OwnerForKey returns the current owner of the shard holding key.
func (c *Coordinator) OwnerForKey(key string) *shard.Owner {
	_, owner := c.table.OwnerForKey(key)
	return owner
}

// Close releases every shard connection and the discovery connection.
func (c *Coordinator) Close() error {
	return errors.Join(c.table.Close(), c.discovery.Close())
}

// Do runs op against the owner of key, applying the failover protocol:
//
//  1. Route key to its shard and attempt op on the current owner.
//  2. On success or an application error, return as is.
//  3. On a connectivity failure, refresh the owner through discovery and
//     attempt op exactly once more.
//  4. A second connectivity failure is returned wrapped in
//     ErrShardConnectivity. There is no third attempt.
//
// If the refresh itself fails, the discovery error is returned.
func Do[T any](ctx context.Context, c *Coordinator, key string, op func(ctx context.Context, conn storage.Conn) (T, error)) (T, error) {
	index, owner := c.table.OwnerForKey(key)

	owner.RecordAttempt()
	result, err := op(ctx, owner.Conn())
	if !storage.IsConnectivityError(err) {
		return result, err
	}
	owner.RecordConnFailure()
	log.Printf("Shard %s at %s unreachable: %v; re-resolving owner", owner.Name, owner.Addr(), err)

	var zero T
	owner, refreshErr := c.table.RefreshOwner(ctx, index, owner)
	if refreshErr != nil {
		return zero, fmt.Errorf("after connectivity failure (%v): %w", err, refreshErr)
	}

	owner.RecordAttempt()
	result, err = op(ctx, owner.Conn())
	if storage.IsConnectivityError(err) {
		owner.RecordConnFailure()
		return zero, fmt.Errorf("%w: shard %s at %s: %w", ErrShardConnectivity, owner.Name, owner.Addr(), err)
	}
	return result, err
}

func unsupported(op string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
}
