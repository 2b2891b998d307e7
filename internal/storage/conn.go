package storage

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by reads on a key the shard node does not hold
var ErrKeyNotFound = redis.Nil

// Conn is the command surface of one shard node
// Implementations must be safe for concurrent use
type Conn interface {
	redis.Cmdable

	// Close releases the connection pool
	// Commands issued after Close fail with a connectivity error
	Close() error
}

// Factory opens a lazily-dialed connection to the node at addr
type Factory func(addr string) Conn

// NewRedisConn returns a go-redis client bound to addr
// Internal retries are disabled: a failed command is reported once and the
// coordinator decides whether to re-resolve the owner and try again
func NewRedisConn(addr string) Conn {
	return redis.NewClient(&redis.Options{
		Addr:       addr,
		MaxRetries: -1,
	})
}

// IsConnectivityError reports whether err is a transport failure talking to
// a node (refused, reset, closed) rather than a reply from the node itself
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	// Replies from a node that was reached
	if errors.Is(err, redis.Nil) {
		return false
	}
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return false
	}

	// The caller gave up, the node did not fail
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	switch {
	case errors.Is(err, redis.ErrClosed),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
