// Package ledger holds the client-side seat state machine: a local
// authoritative view of each performance's chart, the validation applied
// to requests before any network call, and the grid derivation the
// presentation layer renders.  Conflict arbitration itself is delegated
// to the backing store's conditional writes; the ledger expresses the
// precondition and interprets the store's answer.
package ledger

import (
    "sort"
    "sync"

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
)

// Ledger caches the last authoritative seat state per performance and
// applies committed results as they come back from either channel.
type Ledger struct {
    mu     sync.RWMutex
    charts map[string]map[string]model.Seat // performance key -> seat id -> seat
}

// New returns an empty ledger.
func New() *Ledger {
    return &Ledger{charts: make(map[string]map[string]model.Seat)}
}

// ValidateRequest rejects malformed reservation requests before any
// network call: the performance must be fully identified, the seat count
// must be within 1..maxSeats after de-duplication, and every seat id must
// split into a parseable {row, number}.  The returned slice is the
// de-duplicated batch in request order.
func ValidateRequest(req model.ReservationRequest, maxSeats int) ([]string, error) {
    if !req.Performance.Valid() {
        return nil, backend.Errorf(backend.TypeValidation, "incomplete performance identifier")
    }
    if req.RequesterID == "" {
        return nil, backend.Errorf(backend.TypeValidation, "missing requester identity")
    }
    seen := make(map[string]struct{}, len(req.SeatIDs))
    unique := make([]string, 0, len(req.SeatIDs))
    for _, id := range req.SeatIDs {
        if _, ok := seen[id]; ok {
            continue
        }
        seen[id] = struct{}{}
        if !model.ParseSeatKey(id).Parsed {
            return nil, backend.Errorf(backend.TypeValidation, "malformed seat id %q", id)
        }
        unique = append(unique, id)
    }
    if len(unique) == 0 {
        return nil, backend.Errorf(backend.TypeValidation, "no seats requested")
    }
    if len(unique) > maxSeats {
        return nil, backend.Errorf(backend.TypeValidation, "at most %d seats per request", maxSeats)
    }
    return unique, nil
}

// ApplySeats replaces the cached chart for a performance with the
// authoritative seat set returned by a channel.
func (l *Ledger) ApplySeats(perf model.Performance, seats []model.Seat) {
    chart := make(map[string]model.Seat, len(seats))
    for _, s := range seats {
        s.Derive() // fill row/number from the composite key when absent
        chart[s.ID] = s
    }
    l.mu.Lock()
    l.charts[perf.Key()] = chart
    l.mu.Unlock()
}

// ApplyReservation folds a committed reservation into the cached chart.
// Seats the ledger has never seen are created; the store has already
// accepted them, so the local view follows.
func (l *Ledger) ApplyReservation(res model.Reservation) {
    l.mu.Lock()
    defer l.mu.Unlock()
    chart, ok := l.charts[res.Performance.Key()]
    if !ok {
        chart = make(map[string]model.Seat, len(res.SeatIDs))
        l.charts[res.Performance.Key()] = chart
    }
    for _, id := range res.SeatIDs {
        s, ok := chart[id]
        if !ok {
            s = model.Seat{ID: id}
        }
        s.Status = model.SeatReserved
        s.ReservationID = res.ID
        s.ReservedBy = res.RequesterID
        s.UpdatedAt = res.CreatedAt
        s.Derive()
        chart[id] = s
    }
}

// ApplySeat folds a single authoritative seat (check-in or cancel result)
// into the cached chart.
func (l *Ledger) ApplySeat(perf model.Performance, seat model.Seat) {
    seat.Derive()
    l.mu.Lock()
    defer l.mu.Unlock()
    chart, ok := l.charts[perf.Key()]
    if !ok {
        chart = make(map[string]model.Seat, 1)
        l.charts[perf.Key()] = chart
    }
    chart[seat.ID] = seat
}

// Row is one rendered row of the seating grid.
type Row struct {
    Label string       `json:"label"`
    Seats []model.Seat `json:"seats"`
}

// Grid derives the rendered grid from the cached chart: seats grouped by
// row letter, rows sorted lexicographically, seats within a row sorted
// numerically.  Seats without a parseable position are excluded from the
// grid but remain in the cached chart; includeUnparsed appends them under
// an empty row label for the admin surface.
func (l *Ledger) Grid(perf model.Performance, includeUnparsed bool) []Row {
    l.mu.RLock()
    chart := l.charts[perf.Key()]
    byRow := make(map[string][]model.Seat)
    var unparsed []model.Seat
    for _, s := range chart {
        if !s.Derive() {
            if includeUnparsed {
                unparsed = append(unparsed, s)
            }
            continue
        }
        byRow[s.Row] = append(byRow[s.Row], s)
    }
    l.mu.RUnlock()

    labels := make([]string, 0, len(byRow))
    for label := range byRow {
        labels = append(labels, label)
    }
    sort.Strings(labels)

    rows := make([]Row, 0, len(labels)+1)
    for _, label := range labels {
        seats := byRow[label]
        sort.Slice(seats, func(i, j int) bool { return seats[i].Number < seats[j].Number })
        rows = append(rows, Row{Label: label, Seats: seats})
    }
    if len(unparsed) > 0 {
        sort.Slice(unparsed, func(i, j int) bool { return unparsed[i].ID < unparsed[j].ID })
        rows = append(rows, Row{Seats: unparsed})
    }
    return rows
}

// Seat returns the cached state of one seat, if known.
func (l *Ledger) Seat(perf model.Performance, seatID string) (model.Seat, bool) {
    l.mu.RLock()
    defer l.mu.RUnlock()
    s, ok := l.charts[perf.Key()][seatID]
    return s, ok
}
