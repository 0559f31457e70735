package backend

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/theatre-reservation/internal/model"
)

// MemoryChannel is a mutex-guarded in-memory implementation of Channel
// with the same compare-and-set semantics as the MySQL store: a batch
// reserve commits only if every seat is still available at commit time.
// It backs local development and deterministic tests.
type MemoryChannel struct {
    mu        sync.Mutex
    name      string
    seats     map[string]map[string]model.Seat // performance key -> seat id -> seat
    lock      model.SystemLockState
    passwords map[string]string // bypass mode -> plain password
    now       func() time.Time
}

// NewMemoryChannel returns an empty in-memory channel reporting the given
// channel name.
func NewMemoryChannel(name string) *MemoryChannel {
    return &MemoryChannel{
        name:      name,
        seats:     make(map[string]map[string]model.Seat),
        passwords: make(map[string]string),
        now:       func() time.Time { return time.Now().UTC() },
    }
}

// Name identifies the channel in logs and reservation records.
func (m *MemoryChannel) Name() string { return m.name }

// Seed installs available seats with the given ids for a performance,
// replacing any existing chart.
func (m *MemoryChannel) Seed(perf model.Performance, seatIDs ...string) {
    m.mu.Lock()
    defer m.mu.Unlock()
    chart := make(map[string]model.Seat, len(seatIDs))
    for _, id := range seatIDs {
        chart[id] = model.Seat{ID: id, Status: model.SeatAvailable, UpdatedAt: m.now()}
    }
    m.seats[perf.Key()] = chart
}

// SetLock sets the global lock flag served by GetSystemLock.
func (m *MemoryChannel) SetLock(locked bool, message string) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.lock = model.SystemLockState{IsLocked: locked, Message: message}
}

// SetModePassword registers the plain-text password accepted for a bypass
// mode.  Plain comparison is acceptable here: this channel never backs a
// production deployment.
func (m *MemoryChannel) SetModePassword(mode, password string) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.passwords[mode] = password
}

// GetSystemLock returns the configured lock flag.
func (m *MemoryChannel) GetSystemLock(ctx context.Context) (model.SystemLockState, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.lock, nil
}

// VerifyModePassword compares against the registered password for mode.
func (m *MemoryChannel) VerifyModePassword(ctx context.Context, mode, password string) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    want, ok := m.passwords[mode]
    return ok && want == password, nil
}

// GetSeatData returns a copy of every stored seat for the performance.
func (m *MemoryChannel) GetSeatData(ctx context.Context, perf model.Performance, isAdmin bool) ([]model.Seat, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    chart, ok := m.seats[perf.Key()]
    if !ok {
        return nil, ErrNotFound
    }
    out := make([]model.Seat, 0, len(chart))
    for _, s := range chart {
        out = append(out, s)
    }
    return out, nil
}

// ReserveSeats claims the whole batch or nothing.  The availability check
// and the commit happen under one lock acquisition, which is what gives
// concurrent callers at-most-one-winner semantics.
func (m *MemoryChannel) ReserveSeats(ctx context.Context, perf model.Performance, seatIDs []string, requesterID string) (model.Reservation, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    chart, ok := m.seats[perf.Key()]
    if !ok {
        return model.Reservation{}, ErrNotFound
    }
    for _, id := range seatIDs {
        s, ok := chart[id]
        if !ok {
            return model.Reservation{}, ErrNotFound
        }
        if s.Status != model.SeatAvailable {
            return model.Reservation{}, ErrConflict
        }
    }
    res := model.Reservation{
        ID:          uuid.NewString(),
        Performance: perf,
        SeatIDs:     append([]string(nil), seatIDs...),
        RequesterID: requesterID,
        Channel:     m.name,
        CreatedAt:   m.now(),
    }
    for _, id := range seatIDs {
        s := chart[id]
        s.Status = model.SeatReserved
        s.ReservationID = res.ID
        s.ReservedBy = requesterID
        s.UpdatedAt = res.CreatedAt
        chart[id] = s
    }
    return res, nil
}

// CheckInSeat moves one reserved seat to checked_in.
func (m *MemoryChannel) CheckInSeat(ctx context.Context, perf model.Performance, seatID string) (model.Seat, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    chart, ok := m.seats[perf.Key()]
    if !ok {
        return model.Seat{}, ErrNotFound
    }
    s, ok := chart[seatID]
    if !ok {
        return model.Seat{}, ErrNotFound
    }
    switch s.Status {
    case model.SeatCheckedIn:
        return s, ErrAlreadyCheckedIn
    case model.SeatReserved:
        s.Status = model.SeatCheckedIn
        s.UpdatedAt = m.now()
        chart[seatID] = s
        return s, nil
    default:
        return model.Seat{}, ErrNotFound
    }
}

// CancelReservation returns a reserved seat to available when requesterID
// owns it.
func (m *MemoryChannel) CancelReservation(ctx context.Context, perf model.Performance, seatID, requesterID string) (model.Seat, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    chart, ok := m.seats[perf.Key()]
    if !ok {
        return model.Seat{}, ErrNotFound
    }
    s, ok := chart[seatID]
    if !ok || s.Status != model.SeatReserved {
        return model.Seat{}, ErrNotFound
    }
    if s.ReservedBy != requesterID {
        return model.Seat{}, ErrNotOwner
    }
    s.Status = model.SeatAvailable
    s.ReservationID = ""
    s.ReservedBy = ""
    s.UpdatedAt = m.now()
    chart[seatID] = s
    return s, nil
}
