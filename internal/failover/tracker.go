// Package failover holds the client-side resilience machinery: the
// tracker that records which channel is serving requests, the rotator
// that spreads load across secondary endpoints, and the circuit breaker
// guarding the primary channel.
package failover

import (
    "context"
    "encoding/json"
    "log"
    "sync"
    "time"

    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/store"
)

// StateKey is the KV key under which the tracker snapshot is persisted.
const StateKey = "failover_state"

// Tracker records the failover state machine: primary until a triggering
// failure, secondary while degraded, back to primary on an explicit
// recovery signal or when the sweep finds the episode stale.  Every
// mutation persists the full snapshot so a restarted process resumes in
// the same mode.  The state is process-local; counters are observational
// statistics of this client, not global truth.
type Tracker struct {
    mu         sync.Mutex
    st         model.FailoverState
    kv         store.KV
    staleAfter time.Duration
    now        func() time.Time
    onChange   func(from, to string, reason string)
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithClock injects the time source; tests drive transitions by moving it.
func WithClock(now func() time.Time) TrackerOption {
    return func(t *Tracker) { t.now = now }
}

// WithTransitionHook registers a callback invoked after every mode
// transition, used to append fallback audit entries.
func WithTransitionHook(fn func(from, to string, reason string)) TrackerOption {
    return func(t *Tracker) { t.onChange = fn }
}

// NewTracker loads the persisted snapshot (if any) merged over defaults:
// fields present in the stored JSON overwrite defaults, missing or
// unknown fields keep them.  staleAfter bounds how long a fallback
// episode may sit idle before the sweep declares it stale.
func NewTracker(ctx context.Context, kv store.KV, staleAfter time.Duration, opts ...TrackerOption) *Tracker {
    t := &Tracker{
        st:         model.DefaultFailoverState(),
        kv:         kv,
        staleAfter: staleAfter,
        now:        func() time.Time { return time.Now().UTC() },
    }
    for _, opt := range opts {
        opt(t)
    }
    if raw, ok, err := kv.Get(ctx, StateKey); err != nil {
        log.Printf("failover: load snapshot: %v", err)
    } else if ok {
        // Unmarshal into the defaults so absent fields keep them.
        if err := json.Unmarshal(raw, &t.st); err != nil {
            log.Printf("failover: corrupt snapshot ignored: %v", err)
            t.st = model.DefaultFailoverState()
        }
    }
    if t.st.Mode == "" {
        t.st.Mode = model.ModePrimary
    }
    return t
}

// persist writes the snapshot under the caller-held lock.  Persistence
// failures are logged and swallowed: losing a snapshot degrades restart
// behavior, it must not fail the request that triggered the mutation.
func (t *Tracker) persist() {
    raw, err := json.Marshal(t.st)
    if err != nil {
        log.Printf("failover: marshal snapshot: %v", err)
        return
    }
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := t.kv.Set(ctx, StateKey, raw); err != nil {
        log.Printf("failover: persist snapshot: %v", err)
    }
}

// transition moves the state machine under the caller-held lock.
func (t *Tracker) transition(mode string, active bool, reason string) {
    from := t.st.Mode
    t.st.Mode = mode
    t.st.IsActive = active
    t.st.LastFallbackTime = t.now()
    if t.onChange != nil && from != mode {
        t.onChange(from, mode, reason)
    }
}

// RecordFailure marks a triggering failure: the tracker activates fallback
// and subsequent requests are expected to be served by the secondary
// channel.  Repeated failures while already active only refresh the
// transition timestamp.
func (t *Tracker) RecordFailure(reason string) {
    t.mu.Lock()
    defer t.mu.Unlock()
    if !t.st.IsActive {
        t.st.FallbackCount++
        t.transition(model.ModeSecondary, true, reason)
    } else {
        t.st.LastFallbackTime = t.now()
    }
    t.persist()
}

// RecordPrimaryFailure counts a failed call against the primary channel.
// It does not by itself activate fallback; RecordFailure does that once
// the orchestrator decides to switch.
func (t *Tracker) RecordPrimaryFailure() {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.st.PrimaryFailureCount++
    t.st.TotalRequests++
    t.persist()
}

// RecordSuccess counts a completed request.  While fallback is active the
// success is attributed to the secondary channel; the mode stays secondary
// until an explicit recovery signal or the staleness sweep.
func (t *Tracker) RecordSuccess() {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.st.TotalRequests++
    if t.st.IsActive {
        t.st.SecondarySuccessCount++
        t.st.LastFallbackTime = t.now()
    }
    t.persist()
}

// RecordPrimaryRecovery is the explicit recovery signal: the primary
// channel is healthy again and the tracker returns to primary mode.
func (t *Tracker) RecordPrimaryRecovery() {
    t.mu.Lock()
    defer t.mu.Unlock()
    if t.st.IsActive || t.st.Mode != model.ModePrimary {
        t.transition(model.ModePrimary, false, "primary recovered")
        t.persist()
    }
}

// MarkMixed flags the informational mixed mode: both channels were
// exercised for the same request window (a secondary read while the
// primary is being probed).  It never changes IsActive.
func (t *Tracker) MarkMixed() {
    t.mu.Lock()
    defer t.mu.Unlock()
    if t.st.IsActive && t.st.Mode == model.ModeSecondary {
        t.st.Mode = model.ModeMixed
        t.persist()
    }
}

// Sweep forces the state machine back to primary when fallback has been
// active with no activity for longer than staleAfter.  Run on a fixed
// period; a stale episode is treated as self-healed.
func (t *Tracker) Sweep() {
    t.mu.Lock()
    defer t.mu.Unlock()
    if !t.st.IsActive {
        return
    }
    if t.now().Sub(t.st.LastFallbackTime) > t.staleAfter {
        t.transition(model.ModePrimary, false, "stale fallback expired")
        t.persist()
    }
}

// Reset clears all counters and returns to primary mode.
func (t *Tracker) Reset() {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.st = model.DefaultFailoverState()
    t.st.LastFallbackTime = t.now()
    t.persist()
}

// Flush persists the current snapshot; called on shutdown.
func (t *Tracker) Flush() {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.persist()
}

// Active reports whether fallback is currently active.
func (t *Tracker) Active() bool {
    t.mu.Lock()
    defer t.mu.Unlock()
    return t.st.IsActive
}

// State returns a copy of the current snapshot.
func (t *Tracker) State() model.FailoverState {
    t.mu.Lock()
    defer t.mu.Unlock()
    return t.st
}

// Stats derives the read-only view served to the admin surface.
// FallbackRate is activations per observed request; SecondarySuccessRate
// is secondary successes per primary failure, since every primary failure
// leads to exactly one secondary attempt.
func (t *Tracker) Stats() model.FailoverStats {
    t.mu.Lock()
    defer t.mu.Unlock()
    s := model.FailoverStats{
        IsActive: t.st.IsActive,
        Mode:     t.st.Mode,
    }
    if t.st.TotalRequests > 0 {
        s.FallbackRate = float64(t.st.FallbackCount) / float64(t.st.TotalRequests)
    }
    if t.st.PrimaryFailureCount > 0 {
        s.SecondarySuccessRate = float64(t.st.SecondarySuccessCount) / float64(t.st.PrimaryFailureCount)
    }
    if !t.st.LastFallbackTime.IsZero() {
        s.TimeSinceLastTransition = t.now().Sub(t.st.LastFallbackTime)
    }
    return s
}
