package shard

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/storage"
)

// OwnerState represents the lifecycle state of an owner record
type OwnerState string

const (
	// OwnerStateActive means the record is the table's current entry for its shard
	OwnerStateActive OwnerState = "active"
	// OwnerStateRetired means a newer owner replaced this record
	OwnerStateRetired OwnerState = "retired"
)

// Owner is the current network location of one named shard together with
// the connection to it. Name, Host and Port never change after creation; a
// failover produces a new Owner instead.
type Owner struct {
	Name    string       // Shard identity, stable across failovers
	Host    string       // Owner host
	Port    int          // Owner port
	Stats   *OwnerStats  // Dispatch statistics
	factory storage.Factory
	conn    storage.Conn // Created on first use
	state   OwnerState
	mu      sync.Mutex // Protects conn and state
}

// OwnerStats tracks dispatch counts against one owner
type OwnerStats struct {
	Attempts     uint64 // Commands attempted on this owner
	ConnFailures uint64 // Attempts that failed with a connectivity error
}

// NewOwner creates an active owner record; the connection is opened lazily
func NewOwner(info cluster.OwnerInfo, factory storage.Factory) *Owner {
	return &Owner{
		Name:    info.Name,
		Host:    info.Host,
		Port:    info.Port,
		Stats:   &OwnerStats{},
		factory: factory,
		state:   OwnerStateActive,
	}
}

// Info returns the address record of this owner
func (o *Owner) Info() cluster.OwnerInfo {
	return cluster.OwnerInfo{Name: o.Name, Host: o.Host, Port: o.Port}
}

// Addr returns the owner's host:port
func (o *Owner) Addr() string {
	return o.Info().Addr()
}

// Conn returns the connection to the owner, creating it on first call
// A retired owner hands out a closed connection so callers fail fast
func (o *Owner) Conn() storage.Conn {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn == nil {
		log.Printf("Connecting to shard owner %s at %s", o.Name, o.Addr())
		o.conn = o.factory(o.Addr())
		if o.state == OwnerStateRetired {
			_ = o.conn.Close()
		}
	}
	return o.conn
}

// State returns the lifecycle state
func (o *Owner) State() OwnerState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Retire marks the owner replaced and closes its connection if one was opened
func (o *Owner) Retire() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == OwnerStateRetired {
		return nil
	}
	o.state = OwnerStateRetired
	if o.conn != nil {
		return o.conn.Close()
	}
	return nil
}

// Close releases the connection without changing the owner's state
func (o *Owner) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn == nil {
		return nil
	}
	return o.conn.Close()
}

// RecordAttempt counts one command dispatched to this owner
func (o *Owner) RecordAttempt() {
	atomic.AddUint64(&o.Stats.Attempts, 1)
}

// RecordConnFailure counts one connectivity failure on this owner
func (o *Owner) RecordConnFailure() {
	atomic.AddUint64(&o.Stats.ConnFailures, 1)
}

// GetStats returns a snapshot of the dispatch statistics
func (o *Owner) GetStats() OwnerStats {
	return OwnerStats{
		Attempts:     atomic.LoadUint64(&o.Stats.Attempts),
		ConnFailures: atomic.LoadUint64(&o.Stats.ConnFailures),
	}
}
