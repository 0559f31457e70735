package store

import (
    "context"

    "github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the KV contract.  Keys are stored
// without TTL: the failover snapshot must survive arbitrary downtime and
// is pruned by the sweep logic, not by expiry.
type Redis struct {
    client *redis.Client
    prefix string
}

// NewRedis wraps an existing client.  prefix namespaces the keys so the
// snapshot coexists with other users of the same Redis database.
func NewRedis(client *redis.Client, prefix string) *Redis {
    return &Redis{client: client, prefix: prefix}
}

func (s *Redis) key(k string) string {
    if s.prefix == "" {
        return k
    }
    return s.prefix + ":" + k
}

// Get returns the stored value for key, if any.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
    v, err := s.client.Get(ctx, s.key(key)).Bytes()
    if err == redis.Nil {
        return nil, false, nil
    }
    if err != nil {
        return nil, false, err
    }
    return v, true, nil
}

// Set stores value under key without expiry.
func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
    return s.client.Set(ctx, s.key(key), value, 0).Err()
}
