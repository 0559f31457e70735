package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestParseSeatKey(t *testing.T) {
    cases := []struct {
        name string
        id   string
        want SeatKey
    }{
        {"simple", "A-1", SeatKey{Row: "A", Number: 1, Parsed: true}},
        {"two digit", "B-12", SeatKey{Row: "B", Number: 12, Parsed: true}},
        {"multi letter row", "AA-3", SeatKey{Row: "AA", Number: 3, Parsed: true}},
        {"no delimiter", "A1", SeatKey{}},
        {"empty row", "-5", SeatKey{}},
        {"non numeric", "A-x", SeatKey{}},
        {"zero number", "A-0", SeatKey{}},
        {"negative number", "A--1", SeatKey{}},
        {"empty", "", SeatKey{}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, ParseSeatKey(tc.id))
        })
    }
}

func TestSeatDerive(t *testing.T) {
    s := Seat{ID: "C-7", Status: SeatAvailable}
    assert.True(t, s.Derive())
    assert.Equal(t, "C", s.Row)
    assert.Equal(t, 7, s.Number)

    // Structured fields win over the composite key.
    s = Seat{ID: "whatever", Row: "D", Number: 2}
    assert.True(t, s.Derive())
    assert.Equal(t, "D", s.Row)
    assert.Equal(t, 2, s.Number)

    // Unparseable ids leave the seat without a position.
    s = Seat{ID: "legacy_42"}
    assert.False(t, s.Derive())
    assert.Empty(t, s.Row)
    assert.Zero(t, s.Number)
}
