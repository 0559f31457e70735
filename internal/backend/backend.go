// Package backend defines the channel abstraction over the primary and
// secondary data services.  Both channels expose the same operation set;
// the orchestrator decides which one serves a given request.  Errors
// returned by a channel carry a stable type (see errors.go) so callers can
// distinguish a transport fault, which triggers failover, from a seat
// conflict, which must be surfaced to the user untouched.
package backend

import (
    "context"

    "github.com/iliyamo/theatre-reservation/internal/model"
)

// Channel names used in reservations, audit entries and logs.
const (
    ChannelPrimary   = "primary"
    ChannelSecondary = "secondary"
)

// Channel is the operation set every backend data service implements.  The
// primary channel is backed by MySQL, the secondary by HTTP replicas; an
// in-memory implementation exists for local development and tests.  All
// calls are bounded by the deadline on ctx.
type Channel interface {
    // Name identifies the channel in logs and reservation records.
    Name() string
    // GetSystemLock fetches the global lock flag and its message.
    GetSystemLock(ctx context.Context) (model.SystemLockState, error)
    // VerifyModePassword checks a bypass password for the named mode.
    // A wrong password is reported as (false, nil); errors are faults.
    VerifyModePassword(ctx context.Context, mode, password string) (bool, error)
    // GetSeatData returns every seat of the performance.  When isAdmin is
    // false, callers are expected to hide seats without a parseable
    // position; the channel always returns the full stored set.
    GetSeatData(ctx context.Context, perf model.Performance, isAdmin bool) ([]model.Seat, error)
    // ReserveSeats atomically claims the whole batch for the requester.
    // The write commits only if every seat is still available; otherwise
    // ErrConflict and no partial state change.
    ReserveSeats(ctx context.Context, perf model.Performance, seatIDs []string, requesterID string) (model.Reservation, error)
    // CheckInSeat moves a single reserved seat to checked_in.
    CheckInSeat(ctx context.Context, perf model.Performance, seatID string) (model.Seat, error)
    // CancelReservation returns a reserved seat to available, provided the
    // requester owns it.
    CancelReservation(ctx context.Context, perf model.Performance, seatID, requesterID string) (model.Seat, error)
}
