// Package discovery implements the client side of the discovery tier, the
// quorum-backed service (Redis Sentinel in production) that knows which node
// currently owns each shard.
//
// # Operations
//
// [Client.ListShardOwners] returns every monitored shard in the order the
// tier reports them. The coordinator calls it once at startup and the order
// becomes the permanent shard index space.
//
// [Client.ResolveOwner] returns the current owner of one named shard. The
// coordinator calls it after a connectivity failure to learn whether the
// shard has moved.
//
// # Member Failover
//
// The client talks to one discovery member at a time. Addresses are kept in
// a rotation; connecting takes the front address and moves it to the back.
// When a request fails because the member cannot be reached, the member's
// address is dropped from the rotation for the rest of the process and the
// request is repeated on the next address:
//
//	rotation [A B C]  connect A       rotation [B C A]
//	A fails           drop A          rotation [B C]
//	                  connect B       rotation [C B]
//	B answers         request done    B stays connected
//
// This asymmetry is intentional: shard owners come and go during failovers,
// but discovery members are expected to be stable, so one that fails is not
// worth retrying. Once every address is gone, each request fails with
// [ErrDiscoveryUnavailable].
//
// Errors that are not connectivity failures, such as [ErrUnknownShard], are
// returned without failing over. A member that answers "I do not know that
// shard" is healthy; asking another member would not help.
//
// # Wire Protocol
//
// [RedisDialer] speaks the Redis Sentinel protocol through go-redis:
//
//	SENTINEL MASTERS                        -> ListShardOwners
//	SENTINEL get-master-addr-by-name <name> -> ResolveOwner
//
// The connection is pinned to RESP2 and both the flat field list and the map
// form of a master entry are accepted. Ports are normalized to integers.
//
// Tests use package discoverytest, which simulates a tier whose members can
// be taken down one at a time.
package discovery
