// Package cluster holds the value types shared by the discovery client, the
// shard table and the HTTP gateway.
//
// # Owner Records
//
// An [OwnerInfo] is the answer the discovery tier gives for a shard: the
// stable shard name plus the host and port currently serving it. The shard
// name never changes for a slot; host and port change together whenever the
// discovery tier promotes a new owner.
//
// # Port Normalization
//
// Discovery replies are not consistent about how they encode ports. A master
// listing may return "6379" as a bulk string while a direct lookup returns
// the same value as bytes, and configuration files supply them as part of a
// "host:port" string. Every entry point funnels through [ParsePort], so the
// rest of the system only ever compares integers:
//
//	host, port, err := cluster.SplitHostPort("10.0.0.5:6379")
//	owner := cluster.OwnerInfo{Name: "cache-a", Host: host, Port: port}
//	owner.SameAddr(cluster.OwnerInfo{Host: "10.0.0.5", Port: 6379}) // true
//
// Comparing ports as opaque tokens would make "6379" and 6379 look like an
// address change and cause a needless reconnect.
package cluster
