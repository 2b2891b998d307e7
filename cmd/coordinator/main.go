package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/shardgate/internal/coordinator"
	"github.com/dreamware/shardgate/internal/discovery"
	"github.com/dreamware/shardgate/internal/storage"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	coord, err := coordinator.New(context.Background(), cfg.sentinelAddrs, coordinator.Options{})
	if err != nil {
		log.Fatalf("start coordinator: %v", err)
	}

	var monitor *coordinator.HealthMonitor
	if cfg.healthInterval > 0 {
		monitor = coordinator.NewHealthMonitor(cfg.healthInterval)
		monitor.SetOnUnhealthy(func(shardName string) {
			// Owners are only replaced when a real command fails over
			log.Printf("Shard %s owner unhealthy; waiting for traffic to re-resolve it", shardName)
		})
		go monitor.Start(context.Background(), coord.Table().Owners)
	}

	srv := newServer(coord, monitor)
	httpSrv := &http.Server{
		Addr:              cfg.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("coordinator listening on %s", cfg.addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	if monitor != nil {
		monitor.Stop()
	}
	if err := coord.Close(); err != nil {
		log.Printf("close coordinator: %v", err)
	}
	log.Println("coordinator stopped")
}

type config struct {
	addr           string
	sentinelAddrs  []string
	healthInterval time.Duration
}

func loadConfig() (config, error) {
	cfg := config{
		addr:          getenv("COORDINATOR_ADDR", ":8080"),
		sentinelAddrs: splitAddrs(getenv("SENTINEL_ADDRS", "127.0.0.1:26379")),
	}
	if len(cfg.sentinelAddrs) == 0 {
		return config{}, errors.New("SENTINEL_ADDRS lists no addresses")
	}

	interval, err := time.ParseDuration(getenv("HEALTH_INTERVAL", "5s"))
	if err != nil {
		return config{}, fmt.Errorf("HEALTH_INTERVAL: %w", err)
	}
	if interval < 0 {
		return config{}, fmt.Errorf("HEALTH_INTERVAL: negative duration %v", interval)
	}
	cfg.healthInterval = interval
	return cfg, nil
}

// splitAddrs splits a comma-separated list, dropping blanks.
func splitAddrs(s string) []string {
	addrs := strings.Split(s, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}
	return slices.DeleteFunc(addrs, func(a string) bool { return a == "" })
}

type server struct {
	coord   *coordinator.Coordinator
	monitor *coordinator.HealthMonitor // nil when probing is disabled
}

func newServer(coord *coordinator.Coordinator, monitor *coordinator.HealthMonitor) *server {
	return &server{coord: coord, monitor: monitor}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/shards", s.handleShards)
	mux.HandleFunc("/discovery", s.handleDiscovery)
	mux.HandleFunc("/data/", s.handleData)
	return mux
}

type shardStatus struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	State  string `json:"state"`
	Health string `json:"health"`
}

// handleShards returns the current owner of every shard
func (s *server) handleShards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owners := s.coord.Table().Owners()
	shards := make([]shardStatus, 0, len(owners))
	for i, o := range owners {
		shards = append(shards, shardStatus{
			Index:  i,
			Name:   o.Name,
			Host:   o.Host,
			Port:   o.Port,
			State:  string(o.State()),
			Health: s.healthOf(o.Name, o.Addr()),
		})
	}

	writeJSON(w, struct {
		Shards    []shardStatus `json:"shards"`
		NumShards int           `json:"num_shards"`
	}{Shards: shards, NumShards: len(owners)})
}

// healthOf reports the monitor's view of the owner at addr. Results recorded
// for an earlier owner of the shard do not count.
func (s *server) healthOf(name, addr string) string {
	if s.monitor == nil {
		return "unknown"
	}
	h := s.monitor.GetOwnerHealth(name)
	if h == nil || h.Addr != addr {
		return "unknown"
	}
	return h.Status
}

// handleDiscovery lists the discovery addresses still in rotation
func (s *server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, struct {
		Addrs []string `json:"addrs"`
	}{Addrs: s.coord.DiscoveryAddrs()})
}

// handleData serves single keys through the coordinator
func (s *server) handleData(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/data/")
	if key == "" {
		http.Error(w, "key required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		value, err := s.coord.Get(ctx, key)
		if err != nil {
			writeError(w, key, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.WriteString(w, value)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		if err := s.coord.Set(ctx, key, body, 0); err != nil {
			writeError(w, key, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		n, err := s.coord.Del(ctx, key)
		if err != nil {
			writeError(w, key, err)
			return
		}
		if n == 0 {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// statusForError maps coordinator errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, coordinator.ErrShardConnectivity):
		return http.StatusBadGateway
	case errors.Is(err, discovery.ErrDiscoveryUnavailable), errors.Is(err, discovery.ErrUnknownShard):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, key string, err error) {
	status := statusForError(err)
	if status == http.StatusNotFound {
		http.Error(w, "key not found", status)
		return
	}
	log.Printf("request for key %q failed: %v", key, err)
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
