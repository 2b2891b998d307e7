package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/discovery"
	"github.com/dreamware/shardgate/internal/shard"
	"github.com/dreamware/shardgate/internal/storage"
)

// fakeDiscovery is an in-memory Discovery for table tests
type fakeDiscovery struct {
	mu       sync.Mutex
	owners   []cluster.OwnerInfo
	listErr  error
	resolves int
}

func newFakeDiscovery(owners ...cluster.OwnerInfo) *fakeDiscovery {
	return &fakeDiscovery{owners: owners}
}

func (f *fakeDiscovery) ListShardOwners(context.Context) ([]cluster.OwnerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]cluster.OwnerInfo(nil), f.owners...), nil
}

func (f *fakeDiscovery) ResolveOwner(_ context.Context, name string) (cluster.OwnerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolves++
	for _, o := range f.owners {
		if o.Name == name {
			return o, nil
		}
	}
	return cluster.OwnerInfo{}, fmt.Errorf("%w: %s", discovery.ErrUnknownShard, name)
}

func (f *fakeDiscovery) set(info cluster.OwnerInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.owners {
		if o.Name == info.Name {
			f.owners[i] = info
			return
		}
	}
	f.owners = append(f.owners, info)
}

// fakeConn satisfies storage.Conn for tests that never issue commands
type fakeConn struct {
	redis.Cmdable
	mu     sync.Mutex
	closed bool
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type connCounter struct {
	mu    sync.Mutex
	addrs []string
}

func (c *connCounter) factory(addr string) storage.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addrs = append(c.addrs, addr)
	return &fakeConn{}
}

func (c *connCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.addrs)
}

func twoShards() *fakeDiscovery {
	return newFakeDiscovery(
		cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1},
		cluster.OwnerInfo{Name: "node2", Host: "1.2.3.4", Port: 2},
	)
}

// TestNewShardTable tests building the table from discovery
func TestNewShardTable(t *testing.T) {
	conns := &connCounter{}
	table, err := NewShardTable(context.Background(), twoShards(), conns.factory)
	require.NoError(t, err)

	assert.Equal(t, 2, table.NumShards())

	owners := table.Owners()
	require.Len(t, owners, 2)
	assert.Equal(t, "node1", owners[0].Name)
	assert.Equal(t, "node2", owners[1].Name)
	assert.Equal(t, "1.2.3.4", owners[0].Host)
	assert.Equal(t, "1.2.3.4", owners[1].Host)
	assert.Equal(t, 1, owners[0].Port)
	assert.Equal(t, 2, owners[1].Port)

	// Connections are opened on first use only
	assert.Equal(t, 0, conns.count())
}

// TestNewShardTablePreservesOrder tests that discovery order is kept verbatim
func TestNewShardTablePreservesOrder(t *testing.T) {
	d := newFakeDiscovery(
		cluster.OwnerInfo{Name: "zeta", Host: "10.0.0.3", Port: 6379},
		cluster.OwnerInfo{Name: "alpha", Host: "10.0.0.1", Port: 6379},
		cluster.OwnerInfo{Name: "alpha", Host: "10.0.0.1", Port: 6379},
	)
	table, err := NewShardTable(context.Background(), d, (&connCounter{}).factory)
	require.NoError(t, err)

	owners := table.Owners()
	require.Len(t, owners, 3)
	assert.Equal(t, []string{"zeta", "alpha", "alpha"}, []string{owners[0].Name, owners[1].Name, owners[2].Name})
	assert.NotSame(t, owners[1], owners[2])
}

// TestNewShardTableErrors tests startup failures
func TestNewShardTableErrors(t *testing.T) {
	t.Run("no shards", func(t *testing.T) {
		_, err := NewShardTable(context.Background(), newFakeDiscovery(), nil)
		assert.ErrorIs(t, err, ErrNoShards)
	})

	t.Run("discovery unavailable", func(t *testing.T) {
		d := twoShards()
		d.listErr = discovery.ErrDiscoveryUnavailable
		_, err := NewShardTable(context.Background(), d, nil)
		assert.ErrorIs(t, err, discovery.ErrDiscoveryUnavailable)
	})
}

// TestShardTableOwner tests index lookups and bounds
func TestShardTableOwner(t *testing.T) {
	table, err := NewShardTable(context.Background(), twoShards(), (&connCounter{}).factory)
	require.NoError(t, err)

	owner, err := table.Owner(1)
	require.NoError(t, err)
	assert.Equal(t, "node2", owner.Name)

	_, err = table.Owner(2)
	assert.Error(t, err)
	_, err = table.Owner(-1)
	assert.Error(t, err)
}

// TestShardTableOwnerForKey tests key routing through the table
func TestShardTableOwnerForKey(t *testing.T) {
	table, err := NewShardTable(context.Background(), twoShards(), (&connCounter{}).factory)
	require.NoError(t, err)

	tests := []struct {
		key       string
		wantIndex int
		wantName  string
	}{
		{key: "1", wantIndex: 1, wantName: "node2"},
		{key: "2", wantIndex: 0, wantName: "node1"},
		{key: "3", wantIndex: 1, wantName: "node2"},
		{key: "test", wantIndex: 1, wantName: "node2"},
		{key: "test{2}", wantIndex: 0, wantName: "node1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			index, owner := table.OwnerForKey(tt.key)
			assert.Equal(t, tt.wantIndex, index)
			assert.Equal(t, tt.wantName, owner.Name)
			assert.Equal(t, tt.wantIndex, table.IndexForKey(tt.key))
		})
	}
}

// TestRefreshOwnerUnchanged tests that an unchanged address returns the same record
func TestRefreshOwnerUnchanged(t *testing.T) {
	conns := &connCounter{}
	d := twoShards()
	table, err := NewShardTable(context.Background(), d, conns.factory)
	require.NoError(t, err)

	before, _ := table.Owner(0)
	got, err := table.RefreshOwner(context.Background(), 0, before)
	require.NoError(t, err)

	assert.Same(t, before, got)
	after, _ := table.Owner(0)
	assert.Same(t, before, after)
	assert.Equal(t, shard.OwnerStateActive, before.State())
	assert.Equal(t, 0, conns.count())
	assert.Equal(t, 1, d.resolves)
}

// TestRefreshOwnerChanged tests replacement when host or port differs
func TestRefreshOwnerChanged(t *testing.T) {
	tests := []struct {
		name    string
		newAddr cluster.OwnerInfo
	}{
		{name: "different port", newAddr: cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 11}},
		{name: "different host", newAddr: cluster.OwnerInfo{Name: "node1", Host: "2.2.3.4", Port: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := twoShards()
			table, err := NewShardTable(context.Background(), d, (&connCounter{}).factory)
			require.NoError(t, err)

			before, _ := table.Owner(0)
			before.Conn()
			d.set(tt.newAddr)

			got, err := table.RefreshOwner(context.Background(), 0, before)
			require.NoError(t, err)

			assert.NotSame(t, before, got)
			assert.Equal(t, "node1", got.Name)
			assert.Equal(t, tt.newAddr.Host, got.Host)
			assert.Equal(t, tt.newAddr.Port, got.Port)

			after, _ := table.Owner(0)
			assert.Same(t, got, after)

			// The other slot is untouched
			other, _ := table.Owner(1)
			assert.Equal(t, 2, other.Port)

			// The replaced record is retired and its connection closed
			assert.Equal(t, shard.OwnerStateRetired, before.State())
			assert.True(t, before.Conn().(*fakeConn).closed)
		})
	}
}

// TestRefreshOwnerSharedAddress tests that replacement targets the index, not an address match
func TestRefreshOwnerSharedAddress(t *testing.T) {
	// Both shards briefly report the same address
	d := newFakeDiscovery(
		cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1},
		cluster.OwnerInfo{Name: "node2", Host: "1.2.3.4", Port: 1},
	)
	table, err := NewShardTable(context.Background(), d, (&connCounter{}).factory)
	require.NoError(t, err)

	first, _ := table.Owner(0)
	second, _ := table.Owner(1)

	d.set(cluster.OwnerInfo{Name: "node2", Host: "1.2.3.4", Port: 2})
	got, err := table.RefreshOwner(context.Background(), 1, second)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Port)

	slot0, _ := table.Owner(0)
	slot1, _ := table.Owner(1)
	assert.Same(t, first, slot0)
	assert.Same(t, got, slot1)
}

// TestRefreshOwnerErrors tests discovery failures during refresh
func TestRefreshOwnerErrors(t *testing.T) {
	d := newFakeDiscovery(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1})
	table, err := NewShardTable(context.Background(), d, (&connCounter{}).factory)
	require.NoError(t, err)

	owner, _ := table.Owner(0)

	_, err = table.RefreshOwner(context.Background(), 3, owner)
	assert.Error(t, err)

	d.mu.Lock()
	d.owners = nil
	d.mu.Unlock()

	_, err = table.RefreshOwner(context.Background(), 0, owner)
	assert.True(t, errors.Is(err, discovery.ErrUnknownShard))

	// The table keeps the old owner
	still, _ := table.Owner(0)
	assert.Same(t, owner, still)
}

// TestRefreshOwnerConcurrent tests that racing refreshes converge on one owner
func TestRefreshOwnerConcurrent(t *testing.T) {
	d := twoShards()
	table, err := NewShardTable(context.Background(), d, (&connCounter{}).factory)
	require.NoError(t, err)

	stale, _ := table.Owner(1)
	d.set(cluster.OwnerInfo{Name: "node2", Host: "1.2.3.4", Port: 12})

	const callers = 32
	results := make([]*shard.Owner, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner, err := table.RefreshOwner(context.Background(), 1, stale)
			if err != nil {
				t.Errorf("refresh: %v", err)
				return
			}
			results[i] = owner
		}(i)
	}
	wg.Wait()

	installed, _ := table.Owner(1)
	assert.Equal(t, 12, installed.Port)
	for i, r := range results {
		assert.Same(t, installed, r, "caller %d got a different owner", i)
	}
	assert.Equal(t, shard.OwnerStateRetired, stale.State())
	assert.Equal(t, callers, d.resolves)
}

// TestShardTableClose tests that Close releases opened connections
func TestShardTableClose(t *testing.T) {
	table, err := NewShardTable(context.Background(), twoShards(), (&connCounter{}).factory)
	require.NoError(t, err)

	owner, _ := table.Owner(0)
	conn := owner.Conn().(*fakeConn)

	require.NoError(t, table.Close())
	assert.True(t, conn.closed)
}
