// Package shard implements the two leaf pieces of request routing: the owner
// record for a shard and the pure function that maps a key to a shard index.
//
// # Overview
//
// The keyspace is split across a fixed number of shards. The number is
// decided once, when the coordinator learns the list of shards from the
// discovery tier, and never changes while the process runs. Each shard has a
// stable name and, at any moment, one owner: the node serving it.
//
//	key ──► HashTag ──► SHA-1 ──► mod N ──► index ──► Owner{Name, Host, Port}
//	"user{42}:cart"   "42"     160-bit int     1        cache-b @ 10.0.0.6:6379
//
// # Owner
//
// An [Owner] is immutable in its identity and address. When the discovery
// tier reports a new address for a shard, a new Owner is built and the old
// one is retired. Retiring closes the old connection so any request still
// holding the stale record fails immediately instead of talking to a node
// that may have been demoted.
//
// Owner lifecycle:
//
//	NewOwner ──► active ──(first command)──► connection opened
//	                │
//	                └──(replaced by failover)──► retired, connection closed
//
// Connections are created on first use through a [storage.Factory]; an owner
// that never receives a command never dials.
//
// # Key Routing
//
// [HashTag] implements explicit shard pinning. Keys sharing the text between
// the first '{' and the first following '}' land on the same shard:
//
//	HashTag("test{1}")   == "1"
//	HashTag("other{1}")  == "1"
//	HashTag("plain")     == "plain"
//	HashTag("a}b{c")     == "a}b{c"   // no '}' after the '{'
//	HashTag("x{}y")      == ""        // empty tag is still a tag
//
// [Index] hashes the tag with SHA-1, reads the 20-byte digest as a
// big-endian unsigned integer and reduces it modulo the shard count. The
// result depends only on the key and the shard count, so every process
// using the same shard list agrees on placement.
//
// # Statistics
//
// Each owner counts attempts and connectivity failures with atomic counters.
// The counters belong to the record, so a replacement owner starts at zero.
package shard
