package model

import (
    "strconv"
    "strings"
    "time"
)

// Seat status values.  Transitions only move forward
// (available -> reserved -> checked_in) except for an explicit cancel,
// which returns a reserved seat to available.
const (
    SeatAvailable = "available"
    SeatReserved  = "reserved"
    SeatCheckedIn = "checked_in"
)

// SeatKeyDelimiter separates the row letter from the seat number in a
// composite seat identifier such as "A-12".
const SeatKeyDelimiter = "-"

// Seat describes one seat within a performance's seating chart.  A seat is
// identified by its composite key ("A-12"); the Row and Number fields are
// derived from that key when the backing record does not carry them as
// structured fields.
//
// Fields:
//  ID            – composite seat key within the performance.
//  Row           – row letter parsed from the key (empty when unparseable).
//  Number        – seat number within the row (0 when unparseable).
//  Status        – one of available, reserved, checked_in.
//  ReservationID – owning reservation reference; empty when available.
//  ReservedBy    – requester that owns the reservation; empty when available.
//  UpdatedAt     – last modification timestamp (UTC).
type Seat struct {
    ID            string    `json:"id"`
    Row           string    `json:"row,omitempty"`
    Number        int       `json:"number,omitempty"`
    Status        string    `json:"status"`
    ReservationID string    `json:"reservation_id,omitempty"`
    ReservedBy    string    `json:"reserved_by,omitempty"`
    UpdatedAt     time.Time `json:"updated_at"`
}

// SeatKey is the tagged result of deriving row and number from a seat
// identifier.  Parsed is false when the identifier does not split into a
// non-empty row and a positive number; such seats are retained in storage
// but excluded from the rendered grid.
type SeatKey struct {
    Row    string
    Number int
    Parsed bool
}

// ParseSeatKey derives {row, number} from a composite identifier by
// splitting on the fixed delimiter.  It is the single derivation function
// applied wherever seat identifiers are consumed, so that structured and
// key-only records render identically.
func ParseSeatKey(id string) SeatKey {
    row, num, ok := strings.Cut(id, SeatKeyDelimiter)
    if !ok || row == "" {
        return SeatKey{}
    }
    n, err := strconv.Atoi(num)
    if err != nil || n <= 0 {
        return SeatKey{}
    }
    return SeatKey{Row: row, Number: n, Parsed: true}
}

// Derive fills Row and Number from the composite ID when the structured
// fields are absent.  It reports whether the seat ended up with a
// parseable position.
func (s *Seat) Derive() bool {
    if s.Row != "" && s.Number > 0 {
        return true
    }
    k := ParseSeatKey(s.ID)
    if !k.Parsed {
        return false
    }
    s.Row, s.Number = k.Row, k.Number
    return true
}
