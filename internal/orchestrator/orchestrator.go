// Package orchestrator is the entry point callers use for every seat
// operation.  A submission is validated, gated by the system lock, tried
// against the primary channel and, on a transport fault, retried exactly
// once against a secondary endpoint chosen by the rotator.  Authoritative
// results are folded into the seat ledger and every state change appends
// an audit entry.
package orchestrator

import (
    "context"
    "errors"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/theatre-reservation/internal/audit"
    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/failover"
    "github.com/iliyamo/theatre-reservation/internal/gate"
    "github.com/iliyamo/theatre-reservation/internal/ledger"
    "github.com/iliyamo/theatre-reservation/internal/model"
)

// Session identifies the caller of a mutating operation: the stable
// session id plus the bypass mode granted to it, if any.
type Session struct {
    ID         string
    BypassMode string
}

// Options configures an Orchestrator.
type Options struct {
    Primary  backend.Channel
    Tracker  *failover.Tracker
    Rotator  *failover.Rotator // nil when no secondary endpoints are configured
    Sink     audit.Sink
    Timeout  time.Duration // per channel attempt
    MaxSeats int
}

// Orchestrator wires the reservation pipeline together.  It owns the
// primary-channel breaker and the system lock gate, both of which need to
// see the orchestrator's channel selection.
type Orchestrator struct {
    primary  backend.Channel
    tracker  *failover.Tracker
    rotator  *failover.Rotator
    breaker  *failover.Breaker
    gate     *gate.Gate
    ledger   *ledger.Ledger
    sink     audit.Sink
    timeout  time.Duration
    maxSeats int
}

// New constructs the orchestrator and its gate.  Primary, Tracker and
// Sink are required; a missing rotator simply disables failover.
func New(opts Options) *Orchestrator {
    if opts.Primary == nil || opts.Tracker == nil || opts.Sink == nil {
        panic("nil dependency passed to orchestrator.New")
    }
    if opts.Timeout <= 0 {
        opts.Timeout = 5 * time.Second
    }
    if opts.MaxSeats <= 0 {
        opts.MaxSeats = 5
    }
    o := &Orchestrator{
        primary:  opts.Primary,
        tracker:  opts.Tracker,
        rotator:  opts.Rotator,
        ledger:   ledger.New(),
        sink:     opts.Sink,
        timeout:  opts.Timeout,
        maxSeats: opts.MaxSeats,
    }
    o.breaker = failover.NewBreaker(o.tracker.RecordPrimaryRecovery)
    o.gate = gate.New(o.readLock, o.verifyMode)
    return o
}

// Gate exposes the system lock gate for polling tasks and handlers.
func (o *Orchestrator) Gate() *gate.Gate { return o.gate }

// Ledger exposes the seat ledger for handlers rendering grids.
func (o *Orchestrator) Ledger() *ledger.Ledger { return o.ledger }

// MaxSeats returns the configured per-request seat bound.
func (o *Orchestrator) MaxSeats() int { return o.maxSeats }

// execute runs fn against the primary channel under the breaker and, on a
// transport fault, once more against the rotator's current secondary.
// It returns the result together with the name of the channel that served
// it.  Domain refusals (conflict, not_found, auth, ...) surface
// immediately from whichever channel produced them; only transport faults
// trigger the failover path.
func (o *Orchestrator) execute(ctx context.Context, fn func(ctx context.Context, ch backend.Channel) (interface{}, error)) (interface{}, string, error) {
    v, err := o.breaker.Execute(func() (interface{}, error) {
        attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
        defer cancel()
        return fn(attemptCtx, o.primary)
    })
    if err == nil {
        o.tracker.RecordSuccess()
        return v, o.primary.Name(), nil
    }
    if !backend.IsTransport(err) {
        // Domain refusal: surface it, keeping any partial payload (an
        // already_checked_in refusal still carries the seat).
        return v, o.primary.Name(), err
    }

    // Primary is unreachable (or skipped by an open breaker): record the
    // failure and retry exactly once on a secondary endpoint.
    o.tracker.RecordPrimaryFailure()
    o.tracker.RecordFailure(err.Error())
    if o.rotator == nil {
        return nil, o.primary.Name(), unavailable(err)
    }
    o.rotator.CheckAndRotate()
    sec := o.rotator.Current()

    attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
    defer cancel()
    v, secErr := fn(attemptCtx, sec)
    if secErr == nil {
        o.tracker.RecordSuccess()
        if o.breaker.Probing() {
            o.tracker.MarkMixed()
        }
        return v, sec.Name(), nil
    }
    if !backend.IsTransport(secErr) {
        return v, sec.Name(), secErr
    }
    log.Printf("orchestrator: both channels failed (primary: %v; secondary: %v)", err, secErr)
    return nil, sec.Name(), unavailable(secErr)
}

// unavailable wraps the terminal transport fault of a submission after
// both channels were exhausted, preserving the originating reason.
func unavailable(err error) *backend.Error {
    e := &backend.Error{Type: backend.TypeUnavailable, Message: err.Error(), Offline: true}
    var be *backend.Error
    if errors.As(err, &be) {
        e.Timeout = be.Timeout
    }
    return e
}

// Submit validates and commits a batch reservation.  Validation and lock
// failures reject the request before any network call; conflicts are
// surfaced untouched so the caller can refresh and retry by hand.
func (o *Orchestrator) Submit(ctx context.Context, sess Session, req model.ReservationRequest) (model.Reservation, error) {
    seatIDs, err := ledger.ValidateRequest(req, o.maxSeats)
    if err != nil {
        return model.Reservation{}, err
    }
    if err := o.gate.Check(sess.BypassMode); err != nil {
        return model.Reservation{}, err
    }

    v, channel, err := o.execute(ctx, func(ctx context.Context, ch backend.Channel) (interface{}, error) {
        return ch.ReserveSeats(ctx, req.Performance, seatIDs, req.RequesterID)
    })
    meta := map[string]string{
        "performance": req.Performance.Key(),
        "seats":       strings.Join(seatIDs, ","),
        "channel":     channel,
    }
    if err != nil {
        meta["error_type"] = backend.TypeOf(err)
        o.sink.Record(audit.NewEntry(model.AuditReservation, "failed", sess.ID, req.RequesterID, meta))
        return model.Reservation{}, err
    }
    res := v.(model.Reservation)
    o.ledger.ApplyReservation(res)
    meta["reservation_id"] = res.ID
    o.sink.Record(audit.NewEntry(model.AuditReservation, "reserved", sess.ID, req.RequesterID, meta))
    return res, nil
}

// CheckIn moves one reserved seat to checked_in.  Check-in of several
// seats is a caller-side loop over this call; no atomicity holds across
// the loop.
func (o *Orchestrator) CheckIn(ctx context.Context, sess Session, perf model.Performance, seatID string) (model.Seat, error) {
    if err := o.gate.Check(sess.BypassMode); err != nil {
        return model.Seat{}, err
    }
    v, channel, err := o.execute(ctx, func(ctx context.Context, ch backend.Channel) (interface{}, error) {
        return ch.CheckInSeat(ctx, perf, seatID)
    })
    if err != nil {
        // already_checked_in still carries the authoritative seat; return
        // it so the per-seat reporting survives the wire surface too.
        if seat, ok := v.(model.Seat); ok && errors.Is(err, backend.ErrAlreadyCheckedIn) {
            o.ledger.ApplySeat(perf, seat)
            return seat, err
        }
        return model.Seat{}, err
    }
    seat := v.(model.Seat)
    o.ledger.ApplySeat(perf, seat)
    o.sink.Record(audit.NewEntry(model.AuditCheckIn, "checked_in", sess.ID, "", map[string]string{
        "performance": perf.Key(), "seat": seatID, "channel": channel,
    }))
    return seat, nil
}

// Cancel releases a reserved seat back to available, provided the session
// owns the reservation.
func (o *Orchestrator) Cancel(ctx context.Context, sess Session, perf model.Performance, seatID, requesterID string) (model.Seat, error) {
    if err := o.gate.Check(sess.BypassMode); err != nil {
        return model.Seat{}, err
    }
    v, channel, err := o.execute(ctx, func(ctx context.Context, ch backend.Channel) (interface{}, error) {
        return ch.CancelReservation(ctx, perf, seatID, requesterID)
    })
    if err != nil {
        return model.Seat{}, err
    }
    seat := v.(model.Seat)
    o.ledger.ApplySeat(perf, seat)
    o.sink.Record(audit.NewEntry(model.AuditCancel, "cancelled", sess.ID, requesterID, map[string]string{
        "performance": perf.Key(), "seat": seatID, "channel": channel,
    }))
    return seat, nil
}

// Seats refreshes the ledger's chart for a performance and returns both
// the flat authoritative seat set and the rendered grid.  The flat set is
// lossless (unparseable seats included) and is what replica consumers
// read; the grid is the presentation view.  Reads are not gated by the
// system lock.
func (o *Orchestrator) Seats(ctx context.Context, perf model.Performance, isAdmin bool) ([]model.Seat, []ledger.Row, error) {
    if !perf.Valid() {
        return nil, nil, backend.Errorf(backend.TypeValidation, "incomplete performance identifier")
    }
    v, _, err := o.execute(ctx, func(ctx context.Context, ch backend.Channel) (interface{}, error) {
        return ch.GetSeatData(ctx, perf, isAdmin)
    })
    if err != nil {
        return nil, nil, err
    }
    seats := v.([]model.Seat)
    o.ledger.ApplySeats(perf, seats)
    return seats, o.ledger.Grid(perf, isAdmin), nil
}

// VerifyBypass checks a mode password and, on success, appends the
// lock_bypass audit entry.  The caller records the grant in the session
// token; the remote lock state is never touched.
func (o *Orchestrator) VerifyBypass(ctx context.Context, sess Session, mode, password string) error {
    if err := o.gate.VerifyBypass(ctx, mode, password); err != nil {
        return err
    }
    o.sink.Record(audit.NewEntry(model.AuditLockBypass, "granted", sess.ID, "", map[string]string{
        "mode": mode,
    }))
    return nil
}

// LockState reads the authoritative lock flag through the failover
// pipeline; used by the wire surface other instances poll.
func (o *Orchestrator) LockState(ctx context.Context) (model.SystemLockState, error) {
    return o.readLock(ctx)
}

// readLock fetches the lock flag through the failover pipeline so the
// gate keeps polling even while degraded.
func (o *Orchestrator) readLock(ctx context.Context) (model.SystemLockState, error) {
    v, _, err := o.execute(ctx, func(ctx context.Context, ch backend.Channel) (interface{}, error) {
        return ch.GetSystemLock(ctx)
    })
    if err != nil {
        return model.SystemLockState{}, err
    }
    return v.(model.SystemLockState), nil
}

// verifyMode verifies a bypass password through the failover pipeline.
func (o *Orchestrator) verifyMode(ctx context.Context, mode, password string) (bool, error) {
    v, _, err := o.execute(ctx, func(ctx context.Context, ch backend.Channel) (interface{}, error) {
        ok, err := ch.VerifyModePassword(ctx, mode, password)
        return ok, err
    })
    if err != nil {
        return false, err
    }
    return v.(bool), nil
}
