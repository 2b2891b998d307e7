// Package coordinator implements the routing and failover layer that sits in
// front of a fixed set of Redis shard nodes whose locations are tracked by a
// Sentinel-style discovery tier.
//
// # Overview
//
// The coordinator has three jobs: learn the shards from the discovery tier,
// send every single-key command to the owner of its key, and survive an owner
// changing address by asking the discovery tier once before giving up. The
// shard count is fixed at startup; a failover changes which node owns a
// shard, never how many shards there are.
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│              COORDINATOR                  │
//	├──────────────────────────────────────────┤
//	│                                          │
//	│  ┌────────────────────────────────────┐  │
//	│  │   Command surface                   │  │
//	│  │   - Get/Set/Incr/LPush/HSet/...     │  │
//	│  │   - rejected: MGet/Publish/Time/... │  │
//	│  └────────────────┬───────────────────┘  │
//	│                   ▼                      │
//	│  ┌────────────────────────────────────┐  │
//	│  │   Do (failover wrapper)             │  │
//	│  │   - route, attempt, refresh, retry  │  │
//	│  └────────────────┬───────────────────┘  │
//	│                   ▼                      │
//	│  ┌────────────────────────────────────┐  │
//	│  │   ShardTable                        │  │
//	│  │   - index → Owner, fixed length     │  │
//	│  │   - CAS replacement per index       │  │
//	│  └────────────────┬───────────────────┘  │
//	│                   ▼                      │
//	│  ┌────────────────────────────────────┐  │
//	│  │   discovery.Client                  │  │
//	│  │   - one Sentinel at a time          │  │
//	│  │   - drops failing members           │  │
//	│  └────────────────────────────────────┘  │
//	│                                          │
//	│  HealthMonitor (read-only PING probes)   │
//	└──────────────────────────────────────────┘
//
// # Core Components
//
// ShardTable: Authoritative index → owner mapping
//   - Built once from SENTINEL MASTERS, in the order reported
//   - Index i means the same named shard for the process lifetime
//   - One slot is replaced when discovery confirms a new address
//
// Do: The failover wrapper every single-key command goes through
//   - Routes the key with shard.Index
//   - Retries exactly once after a connectivity failure
//   - Passes application errors through untouched
//
// HealthMonitor: Periodic PING of each current owner
//   - Reports healthy / unhealthy / unknown per shard
//   - Never modifies the table
//
// # Failover Protocol
//
//	1. owner ← table[index(key)]
//	2. attempt command on owner
//	3. success or application error → return it
//	4. connectivity failure →
//	     a. owner ← RefreshOwner(index, owner)   (asks discovery)
//	     b. attempt command on owner once more
//	     c. connectivity failure again → ErrShardConnectivity
//
// A second consecutive failure usually means the discovery tier has not yet
// finished promoting a replica. Waiting for it is left to the caller.
//
// The table heals only in step 4a. There is no background repair loop; a
// shard whose owner moved is noticed by the first command that fails on it.
//
// # Concurrency
//
// Each table slot is an atomic pointer. Lookups are lock-free. RefreshOwner
// replaces a slot with compare-and-swap against the value it just read, so
// two callers that both observed a dead owner both ask discovery, and both
// end up with the same replacement: the second one sees the slot already
// holds an owner at the reported address and returns it. The replaced owner
// is retired and its connection closed, so a request still holding it fails
// fast and goes through the same refresh.
//
// # Error Handling
//
//	ErrShardConnectivity         shard unreachable on both attempts
//	discovery.ErrDiscoveryUnavailable  every discovery member dropped
//	discovery.ErrUnknownShard    discovery no longer knows the shard name
//	ErrUnsupportedOperation      command not bound to a single key
//	ErrNoShards                  discovery listed no shards at startup
//	storage.ErrKeyNotFound       missing key (redis.Nil), passed through
//
// Every failure is returned to the caller. Nothing is queued or swallowed.
//
// # Unsupported Operations
//
// Multi-key commands (MGET, SINTER, RENAME, DEL with several keys, ...),
// pub/sub, transactions, pipelines, scripting and server administration have
// no single shard to go to. They fail immediately with
// ErrUnsupportedOperation without touching any node. Callers that need
// related keys together should pin them with a hash tag:
//
//	coord.Set(ctx, "cart{user42}", cart, 0)
//	coord.Set(ctx, "profile{user42}", profile, 0) // same shard
//
// # Usage
//
//	coord, err := coordinator.New(ctx, []string{"10.0.0.1:26379", "10.0.0.2:26379"}, coordinator.Options{})
//	if err != nil {
//	    log.Fatalf("start coordinator: %v", err)
//	}
//	defer coord.Close()
//
//	if err := coord.Set(ctx, "test", "foo", 0); err != nil {
//	    return err
//	}
//	value, err := coord.Get(ctx, "test")
//
// Custom single-key commands can reuse the failover wrapper directly:
//
//	n, err := coordinator.Do(ctx, coord, "queue", func(ctx context.Context, conn storage.Conn) (int64, error) {
//	    return conn.LLen(ctx, "queue").Result()
//	})
package coordinator
