package router

import (
    "context"
    "errors"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/audit"
    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/failover"
    "github.com/iliyamo/theatre-reservation/internal/handler"
    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/orchestrator"
    "github.com/iliyamo/theatre-reservation/internal/store"
)

var perf = model.Performance{Group: "Jazz Ensemble", Day: 2, Timeslot: "B"}

// newServer stands up the full route surface over a seeded memory channel
// and returns an HTTP channel pointed at it, exactly how one instance
// consumes another as its secondary endpoint.
func newServer(t *testing.T) (*backend.MemoryChannel, *backend.HTTPChannel) {
    t.Helper()
    primary := backend.NewMemoryChannel(backend.ChannelPrimary)
    tracker := failover.NewTracker(context.Background(), store.NewMemory(), time.Hour)
    orch := orchestrator.New(orchestrator.Options{
        Primary:  primary,
        Tracker:  tracker,
        Sink:     audit.NewMemory(),
        Timeout:  time.Second,
        MaxSeats: 5,
    })

    e := echo.New()
    RegisterRoutes(e,
        handler.NewReservationHandler(orch),
        handler.NewAuthHandler(orch, "test-secret"),
        handler.NewAdminHandler(orch, tracker, nil),
        "test-secret",
    )
    srv := httptest.NewServer(e)
    t.Cleanup(srv.Close)
    return primary, backend.NewHTTPChannel(srv.URL, time.Second)
}

func TestSeatDataRoundTripsThroughHTTPChannel(t *testing.T) {
    primary, ch := newServer(t)
    primary.Seed(perf, "A-1", "A-2", "B-1")

    seats, err := ch.GetSeatData(context.Background(), perf, false)
    require.NoError(t, err)
    require.Len(t, seats, 3)

    got := map[string]model.Seat{}
    for _, s := range seats {
        got[s.ID] = s
    }
    for _, id := range []string{"A-1", "A-2", "B-1"} {
        s, ok := got[id]
        require.True(t, ok, "seat %s missing from wire payload", id)
        assert.Equal(t, model.SeatAvailable, s.Status)
    }
}

func TestSeatDataWireKeepsUnparseableSeats(t *testing.T) {
    primary, ch := newServer(t)
    primary.Seed(perf, "A-1", "lodge")

    // The grid drops seats without a parseable position, the flat wire
    // set must not: the channel contract is the full stored set.
    seats, err := ch.GetSeatData(context.Background(), perf, false)
    require.NoError(t, err)
    require.Len(t, seats, 2)
    ids := []string{seats[0].ID, seats[1].ID}
    assert.Contains(t, ids, "lodge")
}

func TestReservationLifecycleOverTheWire(t *testing.T) {
    primary, ch := newServer(t)
    primary.Seed(perf, "A-1", "A-2")
    ctx := context.Background()

    res, err := ch.ReserveSeats(ctx, perf, []string{"A-1"}, "client-x")
    require.NoError(t, err)
    assert.Equal(t, []string{"A-1"}, res.SeatIDs)

    // A concurrent claim of the same seat surfaces Conflict unchanged.
    _, err = ch.ReserveSeats(ctx, perf, []string{"A-1"}, "client-y")
    require.Error(t, err)
    assert.True(t, errors.Is(err, backend.ErrConflict))

    seat, err := ch.CheckInSeat(ctx, perf, "A-1")
    require.NoError(t, err)
    assert.Equal(t, model.SeatCheckedIn, seat.Status)

    // The already_checked_in refusal still carries the authoritative seat
    // across the wire.
    seat, err = ch.CheckInSeat(ctx, perf, "A-1")
    require.Error(t, err)
    assert.True(t, errors.Is(err, backend.ErrAlreadyCheckedIn))
    assert.Equal(t, "A-1", seat.ID)
    assert.Equal(t, model.SeatCheckedIn, seat.Status)

    // Ownership is enforced on the serving side.
    _, err = ch.ReserveSeats(ctx, perf, []string{"A-2"}, "client-x")
    require.NoError(t, err)
    _, err = ch.CancelReservation(ctx, perf, "A-2", "client-y")
    require.Error(t, err)
    assert.True(t, errors.Is(err, backend.ErrNotOwner))
    seat, err = ch.CancelReservation(ctx, perf, "A-2", "client-x")
    require.NoError(t, err)
    assert.Equal(t, model.SeatAvailable, seat.Status)
}

func TestLockAndBypassOverTheWire(t *testing.T) {
    primary, ch := newServer(t)
    primary.SetLock(true, "Maintenance")
    primary.SetModePassword(model.BypassModeSystemLock, "open-sesame")
    ctx := context.Background()

    st, err := ch.GetSystemLock(ctx)
    require.NoError(t, err)
    assert.True(t, st.IsLocked)
    assert.Equal(t, "Maintenance", st.Message)

    verified, err := ch.VerifyModePassword(ctx, model.BypassModeSystemLock, "open-sesame")
    require.NoError(t, err)
    assert.True(t, verified)

    _, err = ch.VerifyModePassword(ctx, model.BypassModeSystemLock, "nope")
    require.Error(t, err)
    assert.Equal(t, backend.TypeAuth, backend.TypeOf(err))
}
