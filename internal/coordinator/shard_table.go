// Package coordinator implements the routing and failover layer in front of
// the shard nodes.
// See doc.go for complete package documentation.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/shard"
	"github.com/dreamware/shardgate/internal/storage"
)

// ErrNoShards is returned when the discovery tier reports no shards at startup.
var ErrNoShards = errors.New("discovery reported no shards")

// Discovery is the view of the discovery tier the shard table needs.
// *discovery.Client satisfies it.
type Discovery interface {
	ListShardOwners(ctx context.Context) ([]cluster.OwnerInfo, error)
	ResolveOwner(ctx context.Context, name string) (cluster.OwnerInfo, error)
}

// ShardTable is the authoritative, fixed-length mapping from shard index to
// current owner, serving as the routing source for every dispatched command.
//
// The table is built once from the discovery tier and never grows or
// shrinks. Index i refers to the same named shard for the life of the
// process; only the Owner stored at i changes, and only when a failover is
// confirmed by the discovery tier.
//
// Architecture:
//
//	┌──────────────────────────────────────────┐
//	│              ShardTable                  │
//	├──────────────────────────────────────────┤
//	│  owners: [ ]atomic.Pointer[shard.Owner]  │
//	│     0 → node1 @ 1.2.3.4:1                │
//	│     1 → node2 @ 1.2.3.4:2                │
//	├──────────────────────────────────────────┤
//	│  Key → HashTag → SHA-1 → mod N → Owner   │
//	│  "test" → "test" → ... → 1 → node2       │
//	└──────────────────────────────────────────┘
//
// Concurrency Model:
//   - Reads are a single atomic load per lookup
//   - Replacement is a compare-and-swap on one index
//   - Callers on different indices never contend
//   - Callers racing to refresh the same index converge on one owner
//
// Thread Safety:
// All methods are safe for concurrent use.
type ShardTable struct {
	// owners holds one slot per shard. The slice itself is never resized.
	owners []atomic.Pointer[shard.Owner]

	// discovery answers refresh lookups.
	discovery Discovery

	// factory opens connections for owners created by this table.
	factory storage.Factory
}

// NewShardTable builds a table from the discovery tier's current shard list.
//
// The order reported by discovery becomes the permanent index space. There
// is no sorting and no deduplication: if discovery lists a shard twice it
// occupies two slots.
//
// Parameters:
//   - ctx: Bounds the discovery request
//   - d: Discovery tier view
//   - factory: Connection factory for owners (nil uses storage.NewRedisConn)
//
// Returns:
//   - Populated ShardTable
//   - ErrNoShards if discovery lists nothing
//   - The discovery error if the listing fails
//
// Example:
//
//	table, err := NewShardTable(ctx, discoveryClient, nil)
//	if err != nil {
//	    log.Fatalf("build shard table: %v", err)
//	}
func NewShardTable(ctx context.Context, d Discovery, factory storage.Factory) (*ShardTable, error) {
	if factory == nil {
		factory = storage.NewRedisConn
	}

	infos, err := d.ListShardOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shard owners: %w", err)
	}
	if len(infos) == 0 {
		return nil, ErrNoShards
	}

	t := &ShardTable{
		owners:    make([]atomic.Pointer[shard.Owner], len(infos)),
		discovery: d,
		factory:   factory,
	}
	for i, info := range infos {
		t.owners[i].Store(shard.NewOwner(info, factory))
		log.Printf("Shard %d is %s", i, info)
	}
	return t, nil
}

// NumShards returns the fixed number of shards.
func (t *ShardTable) NumShards() int {
	return len(t.owners)
}

// Owner returns the current owner at index.
func (t *ShardTable) Owner(index int) (*shard.Owner, error) {
	if index < 0 || index >= len(t.owners) {
		return nil, fmt.Errorf("invalid shard index %d, must be in range [0, %d)", index, len(t.owners))
	}
	return t.owners[index].Load(), nil
}

// Owners returns a snapshot of every slot, in index order.
func (t *ShardTable) Owners() []*shard.Owner {
	owners := make([]*shard.Owner, len(t.owners))
	for i := range t.owners {
		owners[i] = t.owners[i].Load()
	}
	return owners
}

// IndexForKey returns the shard index that owns key.
func (t *ShardTable) IndexForKey(key string) int {
	return shard.Index(key, len(t.owners))
}

// OwnerForKey returns the index and current owner for key. The index is
// returned so a later refresh can target the slot directly.
func (t *ShardTable) OwnerForKey(key string) (int, *shard.Owner) {
	index := t.IndexForKey(key)
	return index, t.owners[index].Load()
}

// RefreshOwner re-resolves the shard at index through discovery.
//
// Outcomes:
//   - Discovery reports the address current already has: current is
//     returned, nothing changes, no connection is opened
//   - The slot already holds an owner at the reported address (another
//     caller refreshed first): that owner is returned
//   - Otherwise a new owner is swapped into the slot, the previous one is
//     retired, and the new owner is returned
//
// The slot is addressed by index, never by searching for an equal address,
// because two shards can briefly report the same address mid-failover.
//
// Returns:
//   - The owner now responsible for the shard
//   - Discovery errors (ErrDiscoveryUnavailable, ErrUnknownShard) wrapped
func (t *ShardTable) RefreshOwner(ctx context.Context, index int, current *shard.Owner) (*shard.Owner, error) {
	if index < 0 || index >= len(t.owners) {
		return nil, fmt.Errorf("invalid shard index %d, must be in range [0, %d)", index, len(t.owners))
	}

	info, err := t.discovery.ResolveOwner(ctx, current.Name)
	if err != nil {
		return nil, fmt.Errorf("refresh owner of shard %s: %w", current.Name, err)
	}
	info.Name = current.Name

	slot := &t.owners[index]
	var replacement *shard.Owner
	for {
		existing := slot.Load()
		if existing.Info().SameAddr(info) {
			return existing, nil
		}

		if replacement == nil {
			replacement = shard.NewOwner(info, t.factory)
		}
		if slot.CompareAndSwap(existing, replacement) {
			log.Printf("Shard %d (%s) moved from %s to %s", index, current.Name, existing.Addr(), replacement.Addr())
			if err := existing.Retire(); err != nil {
				log.Printf("Closing connection to retired owner %s at %s: %v", existing.Name, existing.Addr(), err)
			}
			return replacement, nil
		}
	}
}

// Close closes every owner's connection.
func (t *ShardTable) Close() error {
	var errs []error
	for i := range t.owners {
		if err := t.owners[i].Load().Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
