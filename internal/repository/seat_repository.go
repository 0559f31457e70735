package repository // repository for seat persistence on the primary channel

import (
    "context"      // context for managing deadlines
    "database/sql" // sql provides DB interfaces
    "strings"      // strings builds IN (...) placeholder lists

    "github.com/iliyamo/theatre-reservation/internal/backend" // stable error taxonomy
    "github.com/iliyamo/theatre-reservation/internal/model"   // domain types
)

// SeatRepo encapsulates database operations on the seats table.  Each row
// is keyed by (perf_key, seat_id); row_label and seat_number are nullable
// because legacy rows only carry the composite id.  All timestamps are
// stored in UTC.
//
// The conflict arbitration the reservation layer relies on lives here: a
// batch claim is a single status-guarded UPDATE inside a transaction whose
// affected-row count must equal the batch size, otherwise the transaction
// is rolled back and no partial state change survives.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// placeholders returns "?, ?, ..." with n entries for IN clauses.
func placeholders(n int) string {
    return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// GetSeats returns every seat stored for the performance, including rows
// whose composite id has no parseable position.  Ordering is left to the
// ledger's grid derivation.
func (r *SeatRepo) GetSeats(ctx context.Context, perfKey string) ([]model.Seat, error) {
    const q = `SELECT seat_id, COALESCE(row_label, ''), COALESCE(seat_number, 0),
                      status, COALESCE(reservation_id, ''), COALESCE(reserved_by, ''), updated_at
               FROM seats WHERE perf_key = ?`
    rows, err := r.db.QueryContext(ctx, q, perfKey)
    if err != nil {
        return nil, backend.Transport(err)
    }
    defer rows.Close()
    var seats []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.Row, &s.Number, &s.Status, &s.ReservationID, &s.ReservedBy, &s.UpdatedAt); err != nil {
            return nil, backend.Transport(err)
        }
        seats = append(seats, s)
    }
    if err := rows.Err(); err != nil {
        return nil, backend.Transport(err)
    }
    return seats, nil
}

// ReserveBatch claims every seat in seatIDs for the requester, or none of
// them.  The UPDATE only matches rows still in 'available' status; when
// fewer rows than requested are affected the transaction is rolled back
// and the shortfall is classified: missing rows mean not_found, existing
// rows that the guard skipped mean a concurrent claim won, i.e. conflict.
func (r *SeatRepo) ReserveBatch(ctx context.Context, perfKey string, seatIDs []string, requesterID, reservationID string) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return backend.Transport(err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    q := `UPDATE seats SET status = ?, reservation_id = ?, reserved_by = ?, updated_at = UTC_TIMESTAMP()
          WHERE perf_key = ? AND seat_id IN (` + placeholders(len(seatIDs)) + `) AND status = ?`
    args := make([]interface{}, 0, len(seatIDs)+5)
    args = append(args, model.SeatReserved, reservationID, requesterID, perfKey)
    for _, id := range seatIDs {
        args = append(args, id)
    }
    args = append(args, model.SeatAvailable)

    res, err := tx.ExecContext(ctx, q, args...)
    if err != nil {
        return backend.Transport(err)
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return backend.Transport(err)
    }
    if int(affected) != len(seatIDs) {
        // Rollback happens in the deferred func; classify the shortfall.
        return r.classifyShortfall(ctx, tx, perfKey, seatIDs)
    }
    if err := tx.Commit(); err != nil {
        return backend.Transport(err)
    }
    committed = true
    return nil
}

// classifyShortfall distinguishes a missing seat row from a seat already
// claimed by a concurrent writer.  It runs on the still-open transaction
// so it observes the same snapshot the guard evaluated against.
func (r *SeatRepo) classifyShortfall(ctx context.Context, tx *sql.Tx, perfKey string, seatIDs []string) error {
    q := `SELECT COUNT(*) FROM seats WHERE perf_key = ? AND seat_id IN (` + placeholders(len(seatIDs)) + `)`
    args := make([]interface{}, 0, len(seatIDs)+1)
    args = append(args, perfKey)
    for _, id := range seatIDs {
        args = append(args, id)
    }
    var count int
    if err := tx.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
        return backend.Transport(err)
    }
    if count != len(seatIDs) {
        return backend.ErrNotFound
    }
    return backend.ErrConflict
}

// getSeat loads a single seat row.
func (r *SeatRepo) getSeat(ctx context.Context, perfKey, seatID string) (model.Seat, error) {
    const q = `SELECT seat_id, COALESCE(row_label, ''), COALESCE(seat_number, 0),
                      status, COALESCE(reservation_id, ''), COALESCE(reserved_by, ''), updated_at
               FROM seats WHERE perf_key = ? AND seat_id = ?`
    var s model.Seat
    err := r.db.QueryRowContext(ctx, q, perfKey, seatID).Scan(
        &s.ID, &s.Row, &s.Number, &s.Status, &s.ReservationID, &s.ReservedBy, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Seat{}, backend.ErrNotFound
    }
    if err != nil {
        return model.Seat{}, backend.Transport(err)
    }
    return s, nil
}

// CheckIn moves a reserved seat to checked_in.  The guard only matches
// 'reserved'; when nothing is affected the current status decides between
// already_checked_in (reported with the seat so callers can show it) and
// not_found.
func (r *SeatRepo) CheckIn(ctx context.Context, perfKey, seatID string) (model.Seat, error) {
    const q = `UPDATE seats SET status = ?, updated_at = UTC_TIMESTAMP()
               WHERE perf_key = ? AND seat_id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.SeatCheckedIn, perfKey, seatID, model.SeatReserved)
    if err != nil {
        return model.Seat{}, backend.Transport(err)
    }
    if n, err := res.RowsAffected(); err != nil {
        return model.Seat{}, backend.Transport(err)
    } else if n == 1 {
        return r.getSeat(ctx, perfKey, seatID)
    }
    seat, err := r.getSeat(ctx, perfKey, seatID)
    if err != nil {
        return model.Seat{}, err
    }
    if seat.Status == model.SeatCheckedIn {
        return seat, backend.ErrAlreadyCheckedIn
    }
    return model.Seat{}, backend.ErrNotFound
}

// Cancel returns a reserved seat to available, provided requesterID owns
// the reservation.  Ownership is part of the UPDATE guard, so a stolen
// seat id cannot release someone else's claim.
func (r *SeatRepo) Cancel(ctx context.Context, perfKey, seatID, requesterID string) (model.Seat, error) {
    const q = `UPDATE seats SET status = ?, reservation_id = NULL, reserved_by = NULL, updated_at = UTC_TIMESTAMP()
               WHERE perf_key = ? AND seat_id = ? AND status = ? AND reserved_by = ?`
    res, err := r.db.ExecContext(ctx, q, model.SeatAvailable, perfKey, seatID, model.SeatReserved, requesterID)
    if err != nil {
        return model.Seat{}, backend.Transport(err)
    }
    if n, err := res.RowsAffected(); err != nil {
        return model.Seat{}, backend.Transport(err)
    } else if n == 1 {
        return r.getSeat(ctx, perfKey, seatID)
    }
    seat, err := r.getSeat(ctx, perfKey, seatID)
    if err != nil {
        return model.Seat{}, err
    }
    if seat.Status == model.SeatReserved && seat.ReservedBy != requesterID {
        return model.Seat{}, backend.ErrNotOwner
    }
    return model.Seat{}, backend.ErrNotFound
}
