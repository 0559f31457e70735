package repository

import (
    "context"

    "github.com/google/uuid"

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/utils"
)

// SQLChannel assembles the MySQL-backed repositories into the primary
// backend.Channel.  Reservation ids are minted here so that a committed
// batch carries its reference back to the caller without a second query.
type SQLChannel struct {
    Seats     *SeatRepo
    Locks     *LockRepo
    Passwords *ModePasswordRepo
}

// NewSQLChannel constructs the primary channel.  All repositories must be
// non-nil.
func NewSQLChannel(seats *SeatRepo, locks *LockRepo, passwords *ModePasswordRepo) *SQLChannel {
    if seats == nil || locks == nil || passwords == nil {
        panic("nil repository passed to NewSQLChannel")
    }
    return &SQLChannel{Seats: seats, Locks: locks, Passwords: passwords}
}

// Name identifies the channel in logs and reservation records.
func (c *SQLChannel) Name() string { return backend.ChannelPrimary }

// GetSystemLock fetches the global lock flag.
func (c *SQLChannel) GetSystemLock(ctx context.Context) (model.SystemLockState, error) {
    return c.Locks.GetSystemLock(ctx)
}

// VerifyModePassword compares the presented password against the stored
// bcrypt hash for mode.  A wrong password is a normal false answer.
func (c *SQLChannel) VerifyModePassword(ctx context.Context, mode, password string) (bool, error) {
    hash, err := c.Passwords.GetHash(ctx, mode)
    if err != nil {
        return false, err
    }
    return utils.VerifyPassword(hash, password), nil
}

// GetSeatData returns every stored seat of the performance.
func (c *SQLChannel) GetSeatData(ctx context.Context, perf model.Performance, isAdmin bool) ([]model.Seat, error) {
    seats, err := c.Seats.GetSeats(ctx, perf.Key())
    if err != nil {
        return nil, err
    }
    if seats == nil {
        return nil, backend.ErrNotFound
    }
    return seats, nil
}

// ReserveSeats claims the whole batch atomically via the status-guarded
// UPDATE in SeatRepo.
func (c *SQLChannel) ReserveSeats(ctx context.Context, perf model.Performance, seatIDs []string, requesterID string) (model.Reservation, error) {
    res := model.Reservation{
        ID:          uuid.NewString(),
        Performance: perf,
        SeatIDs:     append([]string(nil), seatIDs...),
        RequesterID: requesterID,
        Channel:     backend.ChannelPrimary,
    }
    if err := c.Seats.ReserveBatch(ctx, perf.Key(), seatIDs, requesterID, res.ID); err != nil {
        return model.Reservation{}, err
    }
    res.CreatedAt = utils.NowUTC()
    return res, nil
}

// CheckInSeat moves a single reserved seat to checked_in.
func (c *SQLChannel) CheckInSeat(ctx context.Context, perf model.Performance, seatID string) (model.Seat, error) {
    return c.Seats.CheckIn(ctx, perf.Key(), seatID)
}

// CancelReservation releases a reserved seat back to available.
func (c *SQLChannel) CancelReservation(ctx context.Context, perf model.Performance, seatID, requesterID string) (model.Seat, error) {
    return c.Seats.Cancel(ctx, perf.Key(), seatID, requesterID)
}
