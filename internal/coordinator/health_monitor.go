// Package coordinator provides the routing and failover layer.
// This file implements read-only health probing of the current shard owners.
package coordinator

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dreamware/shardgate/internal/shard"
)

const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
	healthStatusUnknown   = "unknown"
)

// OwnerHealth tracks the probe results for one shard's current owner.
// Thread-safe: Protected by HealthMonitor's mutex when accessed.
type OwnerHealth struct {
	LastCheck        time.Time `json:"last_check"`        // Timestamp of the last probe
	LastHealthy      time.Time `json:"last_healthy"`      // Timestamp of the last successful probe
	ShardName        string    `json:"shard"`             // Shard identity
	Addr             string    `json:"addr"`              // Owner address the results refer to
	Status           string    `json:"status"`            // "healthy", "unhealthy" or "unknown"
	ConsecutiveFails int       `json:"consecutive_fails"` // Failed probes in a row
}

// HealthMonitor periodically pings the current owner of every shard and
// reports what it sees. It never changes the shard table: owners are only
// replaced by the failover path of a real command.
// Thread-safe: All methods are safe for concurrent access.
type HealthMonitor struct {
	owners      map[string]*OwnerHealth                         // Probe state per shard name
	checkFunc   func(ctx context.Context, o *shard.Owner) error // Probe implementation
	onUnhealthy func(shardName string)                          // Called when an owner turns unhealthy
	ctx         context.Context                                 // Context for cancellation
	cancel      context.CancelFunc                              // Cancel function for shutdown
	interval    time.Duration                                   // Time between probe rounds
	timeout     time.Duration                                   // Deadline for one probe
	mu          sync.RWMutex                                    // Protects owners map
	wg          sync.WaitGroup                                  // Wait group for graceful shutdown
	maxFailures int                                             // Failures before marking unhealthy
}

// NewHealthMonitor creates a health monitor that probes every interval.
// Owners are marked unhealthy after 3 consecutive failed probes.
//
// Example:
//
//	monitor := NewHealthMonitor(5 * time.Second)
//	go monitor.Start(ctx, coord.Table().Owners)
func NewHealthMonitor(interval time.Duration) *HealthMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &HealthMonitor{
		interval:    interval,
		timeout:     2 * time.Second,
		maxFailures: 3,
		owners:      make(map[string]*OwnerHealth),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetOnUnhealthy sets the callback invoked when an owner becomes unhealthy.
func (h *HealthMonitor) SetOnUnhealthy(callback func(shardName string)) {
	h.onUnhealthy = callback
}

// SetCheckFunction overrides the default PING probe.
func (h *HealthMonitor) SetCheckFunction(checkFunc func(ctx context.Context, o *shard.Owner) error) {
	h.checkFunc = checkFunc
}

// Start probes the owners returned by ownerProvider until ctx or the
// monitor is canceled. It blocks; run it in its own goroutine.
func (h *HealthMonitor) Start(ctx context.Context, ownerProvider func() []*shard.Owner) {
	h.wg.Add(1)
	defer h.wg.Done()

	if ctx == nil {
		ctx = h.ctx
	}
	if h.checkFunc == nil {
		h.checkFunc = h.defaultHealthCheck
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	log.Printf("Health monitor started with interval %v", h.interval)

	h.checkAllOwners(ctx, ownerProvider())

	for {
		select {
		case <-ticker.C:
			h.checkAllOwners(ctx, ownerProvider())
		case <-ctx.Done():
			log.Println("Health monitor stopping due to context cancellation")
			return
		case <-h.ctx.Done():
			log.Println("Health monitor stopping due to internal cancellation")
			return
		}
	}
}

// Stop cancels the monitor and waits for Start to return.
func (h *HealthMonitor) Stop() {
	h.cancel()
	h.wg.Wait()
	log.Println("Health monitor stopped")
}

func (h *HealthMonitor) checkAllOwners(ctx context.Context, owners []*shard.Owner) {
	current := make(map[string]bool)
	for _, o := range owners {
		current[o.Name] = true
		h.checkOwner(ctx, o)
	}

	h.mu.Lock()
	for name := range h.owners {
		if !current[name] {
			delete(h.owners, name)
		}
	}
	h.mu.Unlock()
}

// checkOwner probes one owner. Results are tracked per shard name; when the
// owner's address changes the record starts over.
func (h *HealthMonitor) checkOwner(ctx context.Context, o *shard.Owner) {
	addr := o.Addr()

	h.mu.Lock()
	health, exists := h.owners[o.Name]
	if !exists || health.Addr != addr {
		health = &OwnerHealth{
			ShardName:   o.Name,
			Addr:        addr,
			Status:      healthStatusUnknown,
			LastCheck:   time.Now(),
			LastHealthy: time.Now(),
		}
		h.owners[o.Name] = health
	}
	h.mu.Unlock()

	probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
	err := h.checkFunc(probeCtx, o)
	cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	health.LastCheck = time.Now()

	if err != nil {
		health.ConsecutiveFails++
		log.Printf("Health check failed for shard %s at %s (attempt %d/%d): %v",
			o.Name, addr, health.ConsecutiveFails, h.maxFailures, err)

		if health.ConsecutiveFails >= h.maxFailures {
			previousStatus := health.Status
			health.Status = healthStatusUnhealthy

			if previousStatus != healthStatusUnhealthy && h.onUnhealthy != nil {
				log.Printf("Shard %s at %s marked as unhealthy after %d failures",
					o.Name, addr, health.ConsecutiveFails)
				go h.onUnhealthy(o.Name)
			}
		}
		return
	}

	if health.Status == healthStatusUnhealthy {
		log.Printf("Shard %s at %s recovered and is now healthy", o.Name, addr)
	}
	health.Status = healthStatusHealthy
	health.ConsecutiveFails = 0
	health.LastHealthy = time.Now()
}

// defaultHealthCheck sends PING on the owner's connection.
func (h *HealthMonitor) defaultHealthCheck(ctx context.Context, o *shard.Owner) error {
	return o.Conn().Ping(ctx).Err()
}

// GetOwnerHealth returns a copy of the probe state for shardName, or nil.
func (h *HealthMonitor) GetOwnerHealth(shardName string) *OwnerHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health, exists := h.owners[shardName]
	if !exists {
		return nil
	}
	copied := *health
	return &copied
}

// GetAllOwnerHealth returns copies of the probe state of every shard.
func (h *HealthMonitor) GetAllOwnerHealth() map[string]*OwnerHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]*OwnerHealth, len(h.owners))
	for name, health := range h.owners {
		copied := *health
		result[name] = &copied
	}
	return result
}

// IsHealthy reports whether the shard's owner passed its last probes.
// Returns false if the shard is not being monitored.
func (h *HealthMonitor) IsHealthy(shardName string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health, exists := h.owners[shardName]
	if !exists {
		return false
	}
	return health.Status == healthStatusHealthy
}
