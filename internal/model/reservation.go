package model

import "time"

// Reservation records the outcome of a successful batch claim: one
// requester owning one or more seats of a single performance.
//
// Fields:
//  ID          – opaque reservation reference (UUID).
//  Performance – the seating chart the seats belong to.
//  SeatIDs     – composite keys of the claimed seats, in request order.
//  RequesterID – session identity that owns the seats.
//  Channel     – which channel committed the write ("primary"/"secondary").
//  CreatedAt   – commit timestamp (UTC).
type Reservation struct {
    ID          string      `json:"id"`
    Performance Performance `json:"performance"`
    SeatIDs     []string    `json:"seat_ids"`
    RequesterID string      `json:"requester_id"`
    Channel     string      `json:"channel,omitempty"`
    CreatedAt   time.Time   `json:"created_at"`
}

// ReservationRequest is the validated input to a batch reservation.  All
// seats must belong to the same performance and the seat count is bounded
// by the configured maximum (default 5).
//
// Fields:
//  RequesterID – session identity submitting the request.
//  Performance – target seating chart.
//  SeatIDs     – ordered, de-duplicated composite seat keys.
//  SubmittedAt – client submission timestamp (UTC).
type ReservationRequest struct {
    RequesterID string      `json:"requester_id"`
    Performance Performance `json:"performance"`
    SeatIDs     []string    `json:"seat_ids"`
    SubmittedAt time.Time   `json:"submitted_at"`
}
