package failover

import (
    "math/rand"
    "sync"
    "time"

    "github.com/iliyamo/theatre-reservation/internal/backend"
)

// Rotator cycles through the configured secondary endpoints on a timer so
// that load spreads across equivalent replicas.  Rotation is a scheduling
// hint only: it is independent of the tracker's mode decision and never
// reacts to failures.  The index is process-local, like the tracker state.
type Rotator struct {
    mu        sync.Mutex
    endpoints []backend.Channel
    index     int
    lastRot   time.Time
    interval  time.Duration
    now       func() time.Time
}

// NewRotator builds a rotator over the given endpoints.  With more than
// one endpoint the starting index is uniformly random, so a fleet of
// clients starting simultaneously does not pile onto the same replica.
// The endpoints slice must be non-empty.
func NewRotator(endpoints []backend.Channel, interval time.Duration, now func() time.Time) *Rotator {
    if len(endpoints) == 0 {
        panic("rotator requires at least one endpoint")
    }
    if now == nil {
        now = func() time.Time { return time.Now().UTC() }
    }
    r := &Rotator{
        endpoints: endpoints,
        interval:  interval,
        now:       now,
    }
    if len(endpoints) > 1 {
        r.index = rand.Intn(len(endpoints))
    }
    r.lastRot = r.now()
    return r
}

// Current returns the endpoint the rotator is pointing at.
func (r *Rotator) Current() backend.Channel {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.endpoints[r.index]
}

// Rotate advances to the next endpoint immediately (mod list length).
// A single-endpoint configuration is a no-op.
func (r *Rotator) Rotate() {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.rotateLocked()
}

func (r *Rotator) rotateLocked() {
    if len(r.endpoints) < 2 {
        return
    }
    r.index = (r.index + 1) % len(r.endpoints)
    r.lastRot = r.now()
}

// CheckAndRotate advances by one when the rotation interval has elapsed
// since the last rotation and more than one endpoint is configured.
func (r *Rotator) CheckAndRotate() {
    r.mu.Lock()
    defer r.mu.Unlock()
    if len(r.endpoints) < 2 {
        return
    }
    if r.now().Sub(r.lastRot) >= r.interval {
        r.rotateLocked()
    }
}

// Index returns the current position; exposed for the admin surface.
func (r *Rotator) Index() int {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.index
}

// All returns the endpoints in configuration order.
func (r *Rotator) All() []backend.Channel {
    r.mu.Lock()
    defer r.mu.Unlock()
    return append([]backend.Channel(nil), r.endpoints...)
}
