package failover

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/store"
)

// testClock is a movable time source for driving sweeps deterministically.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time        { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(t *testing.T, kv store.KV, clk *testClock) *Tracker {
    t.Helper()
    return NewTracker(context.Background(), kv, time.Hour, WithClock(clk.now))
}

func TestTrackerActivation(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    tr := newTestTracker(t, store.NewMemory(), clk)

    st := tr.State()
    assert.False(t, st.IsActive)
    assert.Equal(t, model.ModePrimary, st.Mode)

    // Two primary failures in a row: mode flips to secondary on the
    // triggering failure, the counter records both.
    tr.RecordPrimaryFailure()
    tr.RecordFailure("connection refused")
    tr.RecordPrimaryFailure()
    tr.RecordFailure("connection refused")

    st = tr.State()
    assert.True(t, st.IsActive)
    assert.Equal(t, model.ModeSecondary, st.Mode)
    assert.Equal(t, uint64(2), st.PrimaryFailureCount)
    assert.Equal(t, uint64(1), st.FallbackCount) // second failure only refreshes the episode

    // A secondary success is attributed while fallback is active.
    tr.RecordSuccess()
    st = tr.State()
    assert.Equal(t, uint64(1), st.SecondarySuccessCount)
    assert.Equal(t, model.ModeSecondary, st.Mode)
}

func TestTrackerSweepExpiresStaleFallback(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    tr := newTestTracker(t, store.NewMemory(), clk)

    tr.RecordFailure("timeout")
    require.True(t, tr.Active())

    // Within the staleness window the sweep leaves the episode alone.
    clk.advance(30 * time.Minute)
    tr.Sweep()
    assert.True(t, tr.Active())

    // Past one hour of inactivity the episode is declared stale.
    clk.advance(31 * time.Minute)
    tr.Sweep()
    st := tr.State()
    assert.False(t, st.IsActive)
    assert.Equal(t, model.ModePrimary, st.Mode)
}

func TestTrackerRecoverySignal(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    tr := newTestTracker(t, store.NewMemory(), clk)

    tr.RecordFailure("timeout")
    tr.RecordPrimaryRecovery()
    st := tr.State()
    assert.False(t, st.IsActive)
    assert.Equal(t, model.ModePrimary, st.Mode)
}

func TestTrackerPersistenceRoundTrip(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    kv := store.NewMemory()

    tr := newTestTracker(t, kv, clk)
    tr.RecordPrimaryFailure()
    tr.RecordFailure("connection refused")
    tr.RecordSuccess()
    want := tr.State()

    // A new tracker over the same store resumes with identical counters.
    reloaded := newTestTracker(t, kv, clk)
    got := reloaded.State()
    assert.Equal(t, want.IsActive, got.IsActive)
    assert.Equal(t, want.Mode, got.Mode)
    assert.Equal(t, want.FallbackCount, got.FallbackCount)
    assert.Equal(t, want.SecondarySuccessCount, got.SecondarySuccessCount)
    assert.Equal(t, want.PrimaryFailureCount, got.PrimaryFailureCount)
    assert.Equal(t, want.TotalRequests, got.TotalRequests)
    assert.True(t, want.LastFallbackTime.Equal(got.LastFallbackTime))
}

func TestTrackerLoadMergesOverDefaults(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    kv := store.NewMemory()

    // A partial snapshot (older version of the format) only carries some
    // fields; the rest keep their defaults.
    require.NoError(t, kv.Set(context.Background(), StateKey,
        []byte(`{"fallbackCount": 7, "unknownField": true}`)))

    tr := newTestTracker(t, kv, clk)
    st := tr.State()
    assert.Equal(t, uint64(7), st.FallbackCount)
    assert.Equal(t, model.ModePrimary, st.Mode)
    assert.False(t, st.IsActive)
}

func TestTrackerTransitionHook(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    var transitions []string
    tr := NewTracker(context.Background(), store.NewMemory(), time.Hour,
        WithClock(clk.now),
        WithTransitionHook(func(from, to, reason string) {
            transitions = append(transitions, from+"->"+to)
        }),
    )

    tr.RecordFailure("down")
    tr.RecordPrimaryRecovery()
    assert.Equal(t, []string{"primary->secondary", "secondary->primary"}, transitions)
}

func TestTrackerStats(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    tr := newTestTracker(t, store.NewMemory(), clk)

    tr.RecordPrimaryFailure()
    tr.RecordFailure("down")
    tr.RecordSuccess()
    tr.RecordSuccess()
    clk.advance(10 * time.Minute)

    s := tr.Stats()
    assert.True(t, s.IsActive)
    assert.InDelta(t, 1.0/3.0, s.FallbackRate, 1e-9)      // 1 activation over 3 requests
    assert.InDelta(t, 2.0, s.SecondarySuccessRate, 1e-9)  // 2 secondary successes per primary failure
    assert.Equal(t, 10*time.Minute, s.TimeSinceLastTransition)
}

func TestTrackerReset(t *testing.T) {
    clk := &testClock{t: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
    tr := newTestTracker(t, store.NewMemory(), clk)

    tr.RecordPrimaryFailure()
    tr.RecordFailure("down")
    tr.Reset()

    st := tr.State()
    assert.False(t, st.IsActive)
    assert.Equal(t, model.ModePrimary, st.Mode)
    assert.Zero(t, st.FallbackCount)
    assert.Zero(t, st.PrimaryFailureCount)
    assert.Zero(t, st.TotalRequests)
}
