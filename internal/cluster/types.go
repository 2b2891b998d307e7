package cluster

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidPort is returned when a port token cannot be read as a TCP port.
var ErrInvalidPort = errors.New("invalid port")

// OwnerInfo identifies the node currently owning a named shard.
// Port is kept as an integer so that addresses reported as "6379" and 6379
// compare equal.
type OwnerInfo struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Addr returns the dialable host:port form of the owner location.
func (o OwnerInfo) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// SameAddr reports whether both records point at the same host and port.
func (o OwnerInfo) SameAddr(other OwnerInfo) bool {
	return o.Host == other.Host && o.Port == other.Port
}

func (o OwnerInfo) String() string {
	return fmt.Sprintf("%s@%s", o.Name, o.Addr())
}

// SplitHostPort parses a "host:port" string into its host and canonical port.
func SplitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return "", 0, fmt.Errorf("parse address %q: %w", addr, err)
	}
	port, err := ParsePort(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("parse address %q: %w", addr, err)
	}
	return host, port, nil
}

// ParsePort normalizes a port token as returned by a discovery reply.
// Replies may carry the port as a string, raw bytes or an integer.
func ParsePort(v any) (int, error) {
	var port int
	switch p := v.(type) {
	case int:
		port = p
	case int64:
		port = int(p)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPort, p)
		}
		port = n
	case []byte:
		return ParsePort(string(p))
	default:
		return 0, fmt.Errorf("%w: unexpected type %T", ErrInvalidPort, v)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidPort, port)
	}
	return port, nil
}
