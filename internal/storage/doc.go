// Package storage describes how the coordinator talks to a shard node.
//
// Shard nodes are ordinary Redis servers. The coordinator never implements the
// storage engine or its wire protocol; it only needs a handle on which it can
// invoke single-key commands, and a reliable way to tell "the node could not
// be reached" apart from "the node answered with an error".
//
// # Connections
//
// [Conn] is the go-redis command surface plus Close. [NewRedisConn] builds
// one for a host:port without dialing; the first command dials. The client
// has its own retries switched off because the coordinator already runs a
// failover protocol around every command, and a hidden retry inside the
// client would turn the coordinator's single retry into several.
//
// # Error Classes
//
// [IsConnectivityError] is the single classification point:
//
//	Connectivity (triggers failover)     Application (returned as is)
//	─────────────────────────────────    ──────────────────────────────
//	connection refused / reset           WRONGTYPE, ERR syntax, ...
//	unexpected EOF mid-reply             redis.Nil (missing key)
//	use of a closed client               context canceled by caller
//	dial / read / write net errors       context deadline exceeded
//
// A read of a missing key reports [ErrKeyNotFound], which is go-redis'
// redis.Nil, so callers can use errors.Is against either name.
package storage
