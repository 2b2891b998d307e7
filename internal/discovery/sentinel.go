package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dreamware/shardgate/internal/cluster"
)

// RedisDialer connects to a Redis Sentinel at addr and checks it answers.
func RedisDialer(ctx context.Context, addr string) (Sentinel, error) {
	client := redis.NewSentinelClient(&redis.Options{
		Addr:       addr,
		Protocol:   2,
		MaxRetries: -1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisSentinel{client: client}, nil
}

type redisSentinel struct {
	client *redis.SentinelClient
}

// Masters issues SENTINEL MASTERS.
func (s *redisSentinel) Masters(ctx context.Context) ([]cluster.OwnerInfo, error) {
	reply, err := s.client.Masters(ctx).Result()
	if err != nil {
		return nil, err
	}
	return parseMasters(reply)
}

// MasterAddr issues SENTINEL get-master-addr-by-name.
func (s *redisSentinel) MasterAddr(ctx context.Context, name string) (cluster.OwnerInfo, error) {
	reply, err := s.client.GetMasterAddrByName(ctx, name).Result()
	if errors.Is(err, redis.Nil) {
		return cluster.OwnerInfo{}, fmt.Errorf("%w: %s", ErrUnknownShard, name)
	}
	if err != nil {
		return cluster.OwnerInfo{}, err
	}
	return parseMasterAddr(name, reply)
}

func (s *redisSentinel) Close() error {
	return s.client.Close()
}

// parseMasters decodes a SENTINEL MASTERS reply. Each entry is a flat
// field/value list under RESP2 or a map under RESP3.
func parseMasters(reply []interface{}) ([]cluster.OwnerInfo, error) {
	owners := make([]cluster.OwnerInfo, 0, len(reply))
	for i, entry := range reply {
		fields, err := fieldMap(entry)
		if err != nil {
			return nil, fmt.Errorf("master entry %d: %w", i, err)
		}

		name := fields["name"]
		host := fields["ip"]
		if name == "" || host == "" {
			return nil, fmt.Errorf("master entry %d: missing name or ip", i)
		}
		port, err := cluster.ParsePort(fields["port"])
		if err != nil {
			return nil, fmt.Errorf("master %s: %w", name, err)
		}

		owners = append(owners, cluster.OwnerInfo{Name: name, Host: host, Port: port})
	}
	return owners, nil
}

// parseMasterAddr decodes the [host, port] pair of get-master-addr-by-name.
func parseMasterAddr(name string, reply []string) (cluster.OwnerInfo, error) {
	if len(reply) != 2 {
		return cluster.OwnerInfo{}, fmt.Errorf("master %s: expected host and port, got %d fields", name, len(reply))
	}
	port, err := cluster.ParsePort(reply[1])
	if err != nil {
		return cluster.OwnerInfo{}, fmt.Errorf("master %s: %w", name, err)
	}
	return cluster.OwnerInfo{Name: name, Host: reply[0], Port: port}, nil
}

func fieldMap(entry interface{}) (map[string]string, error) {
	fields := make(map[string]string)
	switch v := entry.(type) {
	case []interface{}:
		if len(v)%2 != 0 {
			return nil, fmt.Errorf("odd field count %d", len(v))
		}
		for i := 0; i < len(v); i += 2 {
			fields[fmt.Sprint(v[i])] = fmt.Sprint(v[i+1])
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			fields[fmt.Sprint(k)] = fmt.Sprint(val)
		}
	case map[string]interface{}:
		for k, val := range v {
			fields[k] = fmt.Sprint(val)
		}
	case map[string]string:
		for k, val := range v {
			fields[k] = val
		}
	default:
		return nil, fmt.Errorf("unexpected entry type %T", entry)
	}
	return fields, nil
}
