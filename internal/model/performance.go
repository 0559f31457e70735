package model

import "fmt"

// Performance identifies a single seating chart: one group performing in
// one timeslot of one festival day.  All seat operations are scoped to a
// Performance; seats from different performances can never appear in the
// same reservation request.
//
// Fields:
//  Group    – the performing group's name.
//  Day      – festival day index (1-based).
//  Timeslot – label of the slot within the day (e.g. "A", "B").
type Performance struct {
    Group    string `json:"group"`
    Day      int    `json:"day"`
    Timeslot string `json:"timeslot"`
}

// Key returns the canonical storage key for the performance, used to scope
// seat rows and ledger views.
func (p Performance) Key() string {
    return fmt.Sprintf("%s/%d/%s", p.Group, p.Day, p.Timeslot)
}

// Valid reports whether all identifying fields are populated.
func (p Performance) Valid() bool {
    return p.Group != "" && p.Day > 0 && p.Timeslot != ""
}
