// Package discovery implements the client side of the discovery tier that
// tracks which node currently owns each shard.
// See doc.go for complete package documentation.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/dreamware/shardgate/internal/cluster"
	"github.com/dreamware/shardgate/internal/storage"
)

var (
	// ErrDiscoveryUnavailable is returned once every discovery address has
	// been dropped without a usable answer
	ErrDiscoveryUnavailable = errors.New("discovery service unavailable")

	// ErrUnknownShard is returned when the discovery tier has no record of
	// the requested shard name
	ErrUnknownShard = errors.New("unknown shard")
)

// Sentinel is a connection to one member of the discovery tier.
type Sentinel interface {
	// Masters lists every monitored shard with its current owner address.
	Masters(ctx context.Context) ([]cluster.OwnerInfo, error)

	// MasterAddr returns the current owner of the named shard.
	// Returns ErrUnknownShard if the member has no record of name.
	MasterAddr(ctx context.Context, name string) (cluster.OwnerInfo, error)

	// Close releases the connection.
	Close() error
}

// Dialer connects to the discovery member at addr.
type Dialer func(ctx context.Context, addr string) (Sentinel, error)

// Client answers shard ownership questions using one discovery member at a
// time, failing over across the configured addresses.
//
// Address rotation:
//
//	connect:   take the front address, move it to the back, dial it
//	failure:   close the connection, drop its address for good, try again
//	exhausted: ErrDiscoveryUnavailable
//
// A member that fails is never retried for the life of the Client. A member
// that works stays connected until it fails.
//
// Thread Safety:
// All methods are safe for concurrent use. Requests are serialized because
// the Client holds at most one discovery connection.
type Client struct {
	dial Dialer

	// mu serializes requests and protects the fields below.
	mu sync.Mutex

	// addrs is the rotation of addresses still considered usable.
	addrs []string

	// current is the live connection, nil until the first request.
	current     Sentinel
	currentAddr string
}

// NewClient creates a discovery client over addrs, given in priority order.
// No connection is made until the first request. A nil dial uses RedisDialer.
func NewClient(addrs []string, dial Dialer) (*Client, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no addresses configured", ErrDiscoveryUnavailable)
	}
	for _, addr := range addrs {
		if _, _, err := cluster.SplitHostPort(addr); err != nil {
			return nil, err
		}
	}
	if dial == nil {
		dial = RedisDialer
	}
	return &Client{
		dial:  dial,
		addrs: slices.Clone(addrs),
	}, nil
}

// ListShardOwners returns every shard the discovery tier monitors, in the
// order the tier reports them.
func (c *Client) ListShardOwners(ctx context.Context) ([]cluster.OwnerInfo, error) {
	var owners []cluster.OwnerInfo
	err := c.execute(ctx, func(s Sentinel) error {
		var err error
		owners, err = s.Masters(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return owners, nil
}

// ResolveOwner returns the address currently designated as owner of the
// named shard.
func (c *Client) ResolveOwner(ctx context.Context, name string) (cluster.OwnerInfo, error) {
	var owner cluster.OwnerInfo
	err := c.execute(ctx, func(s Sentinel) error {
		var err error
		owner, err = s.MasterAddr(ctx, name)
		return err
	})
	if err != nil {
		return cluster.OwnerInfo{}, err
	}
	owner.Name = name
	return owner, nil
}

// Addrs returns the addresses still in rotation.
func (c *Client) Addrs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.addrs)
}

// Current returns the address of the live discovery connection, or "" if
// there is none.
func (c *Client) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return ""
	}
	return c.currentAddr
}

// Close drops the live discovery connection. A later request reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	c.currentAddr = ""
	return err
}

// execute runs fn against the live connection, failing over to the next
// address on connectivity errors. Other errors are returned unchanged.
func (c *Client) execute(ctx context.Context, fn func(Sentinel) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if c.current == nil {
			if err := c.connect(ctx); err != nil {
				return err
			}
		}

		err := fn(c.current)
		if !storage.IsConnectivityError(err) {
			return err
		}

		log.Printf("Discovery service %s failed: %v; dropping it from rotation", c.currentAddr, err)
		_ = c.current.Close()
		c.drop(c.currentAddr)
		c.current = nil
		c.currentAddr = ""

		if len(c.addrs) == 0 {
			return fmt.Errorf("%w: all addresses exhausted: %w", ErrDiscoveryUnavailable, err)
		}
	}
}

// connect dials addresses from the front of the rotation until one answers.
// The address used moves to the back; an address that cannot be dialed is
// dropped.
func (c *Client) connect(ctx context.Context) error {
	var lastErr error
	for len(c.addrs) > 0 {
		addr := c.addrs[0]
		c.addrs = append(c.addrs[1:], addr)

		log.Printf("Connecting to discovery service %s", addr)
		s, err := c.dial(ctx, addr)
		if err == nil {
			c.current = s
			c.currentAddr = addr
			return nil
		}
		if !storage.IsConnectivityError(err) {
			return err
		}

		log.Printf("Discovery service %s unreachable: %v", addr, err)
		c.drop(addr)
		lastErr = err
	}

	if lastErr == nil {
		return fmt.Errorf("%w: out of addresses", ErrDiscoveryUnavailable)
	}
	return fmt.Errorf("%w: out of addresses: %w", ErrDiscoveryUnavailable, lastErr)
}

func (c *Client) drop(addr string) {
	if i := slices.Index(c.addrs, addr); i >= 0 {
		c.addrs = slices.Delete(c.addrs, i, i+1)
	}
}
