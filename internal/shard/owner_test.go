package shard

import (
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/storage"
)

// fakeConn satisfies storage.Conn; command methods are never called here
type fakeConn struct {
	redis.Cmdable
	addr   string
	closed int
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

type connRecorder struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (r *connRecorder) factory(addr string) storage.Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &fakeConn{addr: addr}
	r.conns = append(r.conns, c)
	return c
}

// TestNewOwner tests owner creation
func TestNewOwner(t *testing.T) {
	rec := &connRecorder{}
	owner := NewOwner(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, rec.factory)

	assert.Equal(t, "node1", owner.Name)
	assert.Equal(t, "1.2.3.4", owner.Host)
	assert.Equal(t, 1, owner.Port)
	assert.Equal(t, "1.2.3.4:1", owner.Addr())
	assert.Equal(t, OwnerStateActive, owner.State())
	assert.Equal(t, cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, owner.Info())

	// No connection until first use
	assert.Empty(t, rec.conns)
}

// TestOwnerConnLazy tests that the connection is opened once on first use
func TestOwnerConnLazy(t *testing.T) {
	rec := &connRecorder{}
	owner := NewOwner(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, rec.factory)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			owner.Conn()
		}()
	}
	wg.Wait()

	require.Len(t, rec.conns, 1)
	assert.Equal(t, "1.2.3.4:1", rec.conns[0].addr)
	assert.Same(t, rec.conns[0], owner.Conn().(*fakeConn))
}

// TestOwnerRetire tests that retiring closes the connection exactly once
func TestOwnerRetire(t *testing.T) {
	t.Run("retire after use", func(t *testing.T) {
		rec := &connRecorder{}
		owner := NewOwner(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, rec.factory)
		owner.Conn()

		require.NoError(t, owner.Retire())
		require.NoError(t, owner.Retire())

		assert.Equal(t, OwnerStateRetired, owner.State())
		assert.Equal(t, 1, rec.conns[0].closed)
	})

	t.Run("retire before use", func(t *testing.T) {
		rec := &connRecorder{}
		owner := NewOwner(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, rec.factory)

		require.NoError(t, owner.Retire())
		assert.Empty(t, rec.conns)

		// A late caller still gets a connection, already closed
		owner.Conn()
		require.Len(t, rec.conns, 1)
		assert.Equal(t, 1, rec.conns[0].closed)
	})
}

// TestOwnerClose tests closing without retiring
func TestOwnerClose(t *testing.T) {
	rec := &connRecorder{}
	owner := NewOwner(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, rec.factory)

	require.NoError(t, owner.Close())
	assert.Empty(t, rec.conns)

	owner.Conn()
	require.NoError(t, owner.Close())
	assert.Equal(t, 1, rec.conns[0].closed)
	assert.Equal(t, OwnerStateActive, owner.State())
}

// TestOwnerStats tests the atomic dispatch counters
func TestOwnerStats(t *testing.T) {
	owner := NewOwner(cluster.OwnerInfo{Name: "node1", Host: "1.2.3.4", Port: 1}, (&connRecorder{}).factory)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			owner.RecordAttempt()
			if i%5 == 0 {
				owner.RecordConnFailure()
			}
		}(i)
	}
	wg.Wait()

	stats := owner.GetStats()
	assert.Equal(t, uint64(50), stats.Attempts)
	assert.Equal(t, uint64(10), stats.ConnFailures)
}
