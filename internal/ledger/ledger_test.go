package ledger

import (
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
)

var perf = model.Performance{Group: "Brass Band", Day: 1, Timeslot: "A"}

func request(seatIDs ...string) model.ReservationRequest {
    return model.ReservationRequest{
        RequesterID: "sess-x",
        Performance: perf,
        SeatIDs:     seatIDs,
        SubmittedAt: time.Now().UTC(),
    }
}

func TestValidateRequest(t *testing.T) {
    t.Run("at the limit", func(t *testing.T) {
        ids, err := ValidateRequest(request("A-1", "A-2", "A-3", "A-4", "A-5"), 5)
        require.NoError(t, err)
        assert.Equal(t, []string{"A-1", "A-2", "A-3", "A-4", "A-5"}, ids)
    })

    t.Run("too many seats", func(t *testing.T) {
        _, err := ValidateRequest(request("A-1", "A-2", "A-3", "A-4", "A-5", "A-6"), 5)
        require.Error(t, err)
        assert.Equal(t, backend.TypeValidation, backend.TypeOf(err))
    })

    t.Run("duplicates collapse before the limit check", func(t *testing.T) {
        ids, err := ValidateRequest(request("A-1", "A-1", "A-2"), 2)
        require.NoError(t, err)
        assert.Equal(t, []string{"A-1", "A-2"}, ids)
    })

    t.Run("malformed seat id", func(t *testing.T) {
        _, err := ValidateRequest(request("A-1", "bogus"), 5)
        require.Error(t, err)
        assert.Equal(t, backend.TypeValidation, backend.TypeOf(err))
    })

    t.Run("empty batch", func(t *testing.T) {
        _, err := ValidateRequest(request(), 5)
        assert.Error(t, err)
    })

    t.Run("incomplete performance", func(t *testing.T) {
        req := request("A-1")
        req.Performance.Group = ""
        _, err := ValidateRequest(req, 5)
        require.Error(t, err)
        assert.Equal(t, backend.TypeValidation, backend.TypeOf(err))
    })

    t.Run("missing requester", func(t *testing.T) {
        req := request("A-1")
        req.RequesterID = ""
        _, err := ValidateRequest(req, 5)
        assert.Error(t, err)
    })
}

func TestGridDerivation(t *testing.T) {
    l := New()
    l.ApplySeats(perf, []model.Seat{
        {ID: "B-2", Status: model.SeatAvailable},
        {ID: "A-10", Status: model.SeatAvailable},
        {ID: "A-2", Status: model.SeatReserved, ReservedBy: "x"},
        {ID: "B-1", Status: model.SeatAvailable},
        {ID: "legacy_7", Status: model.SeatAvailable}, // no parseable position
    })

    rows := l.Grid(perf, false)
    require.Len(t, rows, 2)
    assert.Equal(t, "A", rows[0].Label)
    assert.Equal(t, "B", rows[1].Label)

    // Numeric order within a row: A-2 before A-10 despite lexicographic order.
    require.Len(t, rows[0].Seats, 2)
    assert.Equal(t, "A-2", rows[0].Seats[0].ID)
    assert.Equal(t, "A-10", rows[0].Seats[1].ID)

    // The unparseable seat stays in storage but not in the grid.
    _, ok := l.Seat(perf, "legacy_7")
    assert.True(t, ok)

    // Admin view appends unparseable seats under an empty row label.
    adminRows := l.Grid(perf, true)
    require.Len(t, adminRows, 3)
    assert.Empty(t, adminRows[2].Label)
    assert.Equal(t, "legacy_7", adminRows[2].Seats[0].ID)
}

func TestApplyReservation(t *testing.T) {
    l := New()
    l.ApplySeats(perf, []model.Seat{
        {ID: "A-1", Status: model.SeatAvailable},
        {ID: "A-2", Status: model.SeatAvailable},
    })
    res := model.Reservation{
        ID:          "res-1",
        Performance: perf,
        SeatIDs:     []string{"A-1", "A-2"},
        RequesterID: "sess-x",
        CreatedAt:   time.Now().UTC(),
    }
    l.ApplyReservation(res)

    for _, id := range res.SeatIDs {
        seat, ok := l.Seat(perf, id)
        require.True(t, ok)
        assert.Equal(t, model.SeatReserved, seat.Status)
        assert.Equal(t, "res-1", seat.ReservationID)
        assert.Equal(t, "sess-x", seat.ReservedBy)
    }
}

func TestErrorTaxonomySentinels(t *testing.T) {
    // errors.Is matches by stable type across wrapping.
    assert.True(t, errors.Is(backend.Errorf(backend.TypeConflict, "seat A-1 taken"), backend.ErrConflict))
    assert.False(t, errors.Is(backend.Errorf(backend.TypeNotFound, "nope"), backend.ErrConflict))
}
