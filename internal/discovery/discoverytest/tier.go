// Package discoverytest provides an in-memory discovery tier for tests.
package discoverytest

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"

	"golang.org/x/exp/slices"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/discovery"
)

// Tier simulates a set of discovery members that all share one view of the
// shard owners. Individual members can be taken down.
type Tier struct {
	mu      sync.Mutex
	masters []cluster.OwnerInfo
	down    map[string]bool
	dials   []string
	calls   map[string]int
}

// NewTier creates a tier reporting masters in the given order.
func NewTier(masters ...cluster.OwnerInfo) *Tier {
	return &Tier{
		masters: slices.Clone(masters),
		down:    make(map[string]bool),
		calls:   make(map[string]int),
	}
}

// SetMaster records a new owner for info.Name, or appends a new shard.
func (t *Tier) SetMaster(info cluster.OwnerInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := slices.IndexFunc(t.masters, func(m cluster.OwnerInfo) bool { return m.Name == info.Name })
	if i >= 0 {
		t.masters[i] = info
		return
	}
	t.masters = append(t.masters, info)
}

// RemoveMaster forgets the named shard.
func (t *Tier) RemoveMaster(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.masters = slices.DeleteFunc(t.masters, func(m cluster.OwnerInfo) bool { return m.Name == name })
}

// SetDown makes the member at addr refuse dials and requests.
func (t *Tier) SetDown(addr string, down bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.down[addr] = down
}

// Dials returns every address dialed so far, in order.
func (t *Tier) Dials() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.dials)
}

// Calls returns how many requests the member at addr answered.
func (t *Tier) Calls(addr string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[addr]
}

// Dial implements discovery.Dialer.
func (t *Tier) Dial(_ context.Context, addr string) (discovery.Sentinel, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dials = append(t.dials, addr)
	if t.down[addr] {
		return nil, refused(addr)
	}
	return &member{tier: t, addr: addr}, nil
}

type member struct {
	tier *Tier
	addr string
}

func (m *member) Masters(context.Context) ([]cluster.OwnerInfo, error) {
	t := m.tier
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.down[m.addr] {
		return nil, refused(m.addr)
	}
	t.calls[m.addr]++
	return slices.Clone(t.masters), nil
}

func (m *member) MasterAddr(_ context.Context, name string) (cluster.OwnerInfo, error) {
	t := m.tier
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.down[m.addr] {
		return cluster.OwnerInfo{}, refused(m.addr)
	}
	t.calls[m.addr]++
	i := slices.IndexFunc(t.masters, func(o cluster.OwnerInfo) bool { return o.Name == name })
	if i < 0 {
		return cluster.OwnerInfo{}, fmt.Errorf("%w: %s", discovery.ErrUnknownShard, name)
	}
	return t.masters[i], nil
}

func (m *member) Close() error { return nil }

func refused(addr string) error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: fmt.Errorf("%s: %w", addr, syscall.ECONNREFUSED)}
}
