// Package store abstracts the small key-value persistence the failover
// tracker needs: one JSON snapshot per key, surviving process restarts.
// The core stays storage-agnostic; production uses Redis and tests (or a
// degraded startup without Redis) use the in-memory implementation.
package store

import (
    "context"
    "sync"
)

// KV is the minimal persistence contract.  Get returns ok=false when the
// key has never been written; Set overwrites unconditionally.
type KV interface {
    Get(ctx context.Context, key string) (value []byte, ok bool, err error)
    Set(ctx context.Context, key string, value []byte) error
}

// Memory is a trivial in-process KV.  State does not survive a restart,
// which callers accept when no durable store is reachable.
type Memory struct {
    mu sync.RWMutex
    m  map[string][]byte
}

// NewMemory returns an empty in-memory KV.
func NewMemory() *Memory {
    return &Memory{m: make(map[string][]byte)}
}

// Get returns the stored value for key, if any.
func (s *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    v, ok := s.m[key]
    if !ok {
        return nil, false, nil
    }
    cp := append([]byte(nil), v...)
    return cp, true, nil
}

// Set stores value under key.
func (s *Memory) Set(ctx context.Context, key string, value []byte) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.m[key] = append([]byte(nil), value...)
    return nil
}
