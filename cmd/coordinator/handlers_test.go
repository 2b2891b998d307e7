package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/coordinator"
	"github.com/dreamware/shardgate/internal/discovery/discoverytest"
	"github.com/dreamware/shardgate/internal/shard"
)

const (
	sentinelA = "127.0.0.1:6383"
	sentinelB = "127.0.0.1:6384"
)

type gateway struct {
	tier  *discoverytest.Tier
	nodes []*miniredis.Miniredis
	coord *coordinator.Coordinator
	srv   *server
	ts    *httptest.Server
}

func ownerInfo(t *testing.T, name string, m *miniredis.Miniredis) cluster.OwnerInfo {
	t.Helper()
	port, err := strconv.Atoi(m.Port())
	require.NoError(t, err)
	return cluster.OwnerInfo{Name: name, Host: m.Host(), Port: port}
}

// newGateway runs the HTTP gateway over two miniredis shard nodes
func newGateway(t *testing.T, monitor *coordinator.HealthMonitor) *gateway {
	t.Helper()
	n1 := miniredis.RunT(t)
	n2 := miniredis.RunT(t)
	tier := discoverytest.NewTier(ownerInfo(t, "node1", n1), ownerInfo(t, "node2", n2))

	coord, err := coordinator.New(context.Background(), []string{sentinelA, sentinelB}, coordinator.Options{Dialer: tier.Dial})
	require.NoError(t, err)
	t.Cleanup(func() { _ = coord.Close() })

	srv := newServer(coord, monitor)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	return &gateway{tier: tier, nodes: []*miniredis.Miniredis{n1, n2}, coord: coord, srv: srv, ts: ts}
}

func (g *gateway) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, g.ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

// TestHandleHealth tests the liveness endpoint
func TestHandleHealth(t *testing.T) {
	g := newGateway(t, nil)
	status, _ := g.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
}

// TestHandleDataRoundTrip tests PUT, GET and DELETE through the coordinator
func TestHandleDataRoundTrip(t *testing.T) {
	g := newGateway(t, nil)

	status, _ := g.do(t, http.MethodPut, "/data/test", "hello")
	assert.Equal(t, http.StatusNoContent, status)

	stored, err := g.nodes[1].Get("test")
	require.NoError(t, err)
	assert.Equal(t, "hello", stored)
	assert.Empty(t, g.nodes[0].Keys())

	status, body := g.do(t, http.MethodGet, "/data/test", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello", body)

	status, _ = g.do(t, http.MethodDelete, "/data/test", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.False(t, g.nodes[1].Exists("test"))

	status, _ = g.do(t, http.MethodGet, "/data/test", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = g.do(t, http.MethodDelete, "/data/test", "")
	assert.Equal(t, http.StatusNotFound, status)
}

// TestHandleDataHashTag tests that tagged keys share a shard
func TestHandleDataHashTag(t *testing.T) {
	g := newGateway(t, nil)

	for _, key := range []string{"user{2}:name", "user{2}:email"} {
		status, _ := g.do(t, http.MethodPut, "/data/"+key, "v")
		require.Equal(t, http.StatusNoContent, status)
	}
	assert.ElementsMatch(t, []string{"user{2}:name", "user{2}:email"}, g.nodes[0].Keys())
	assert.Empty(t, g.nodes[1].Keys())
}

// TestHandleDataErrors tests the request validation and error statuses
func TestHandleDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		setup  func(g *gateway)
		want   int
	}{
		{
			name:   "missing key",
			method: http.MethodGet,
			path:   "/data/",
			want:   http.StatusBadRequest,
		},
		{
			name:   "method not allowed",
			method: http.MethodPost,
			path:   "/data/test",
			want:   http.StatusMethodNotAllowed,
		},
		{
			name:   "shard down without promotion",
			method: http.MethodGet,
			path:   "/data/test",
			setup:  func(g *gateway) { g.nodes[1].Close() },
			want:   http.StatusBadGateway,
		},
		{
			name:   "discovery gone",
			method: http.MethodPut,
			path:   "/data/test",
			setup: func(g *gateway) {
				g.nodes[1].Close()
				g.tier.SetDown(sentinelA, true)
				g.tier.SetDown(sentinelB, true)
			},
			want: http.StatusServiceUnavailable,
		},
		{
			name:   "shard unknown to discovery",
			method: http.MethodDelete,
			path:   "/data/test",
			setup: func(g *gateway) {
				g.nodes[1].Close()
				g.tier.RemoveMaster("node2")
			},
			want: http.StatusServiceUnavailable,
		},
		{
			name:   "wrong type reply",
			method: http.MethodGet,
			path:   "/data/list",
			setup:  func(g *gateway) { _, _ = g.nodes[shard.Index("list", 2)].Push("list", "a") },
			want:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t, nil)
			if tt.setup != nil {
				tt.setup(g)
			}
			status, _ := g.do(t, tt.method, tt.path, "v")
			assert.Equal(t, tt.want, status)
		})
	}
}

// TestHandleDataFailover tests that a promoted owner is picked up by a request
func TestHandleDataFailover(t *testing.T) {
	g := newGateway(t, nil)

	g.nodes[1].Close()
	promoted := miniredis.RunT(t)
	g.tier.SetMaster(ownerInfo(t, "node2", promoted))

	status, _ := g.do(t, http.MethodPut, "/data/test", "after")
	require.Equal(t, http.StatusNoContent, status)

	stored, err := promoted.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "after", stored)
}

type shardsResponse struct {
	Shards    []shardStatus `json:"shards"`
	NumShards int           `json:"num_shards"`
}

// TestHandleShards tests the shard table listing
func TestHandleShards(t *testing.T) {
	g := newGateway(t, nil)

	status, body := g.do(t, http.MethodGet, "/shards", "")
	require.Equal(t, http.StatusOK, status)

	var resp shardsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, 2, resp.NumShards)
	require.Len(t, resp.Shards, 2)
	for i, node := range g.nodes {
		info := ownerInfo(t, "node"+strconv.Itoa(i+1), node)
		assert.Equal(t, shardStatus{
			Index:  i,
			Name:   info.Name,
			Host:   info.Host,
			Port:   info.Port,
			State:  string(shard.OwnerStateActive),
			Health: "unknown",
		}, resp.Shards[i])
	}

	status, _ = g.do(t, http.MethodPost, "/shards", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

// TestHandleShardsHealth tests that probe results show up per owner
func TestHandleShardsHealth(t *testing.T) {
	monitor := coordinator.NewHealthMonitor(time.Hour)
	defer monitor.Stop()

	g := newGateway(t, monitor)
	g.nodes[0].Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, g.coord.Table().Owners)

	require.Eventually(t, func() bool {
		return monitor.IsHealthy("node2") && monitor.GetOwnerHealth("node1") != nil
	}, 2*time.Second, 10*time.Millisecond)

	_, body := g.do(t, http.MethodGet, "/shards", "")
	var resp shardsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Shards, 2)
	// One failed probe is not enough to call the owner unhealthy
	assert.Equal(t, "unknown", resp.Shards[0].Health)
	assert.Equal(t, "healthy", resp.Shards[1].Health)
}

// TestHandleDiscovery tests the discovery address listing
func TestHandleDiscovery(t *testing.T) {
	g := newGateway(t, nil)

	status, body := g.do(t, http.MethodGet, "/discovery", "")
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Addrs []string `json:"addrs"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, []string{sentinelB, sentinelA}, resp.Addrs)

	status, _ = g.do(t, http.MethodDelete, "/discovery", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}
