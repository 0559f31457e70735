package model

import "time"

// Operating modes of the failover tracker.  ModeMixed is informational: it
// marks a window in which both channels were exercised (a secondary read
// while the primary is being probed) and never blocks a transition.
const (
    ModePrimary   = "primary"
    ModeSecondary = "secondary"
    ModeMixed     = "mixed"
)

// FailoverState is the persisted snapshot of the failover tracker.  It is
// process-local: each client instance keeps its own view, so the counters
// are observational statistics rather than global truth.  The JSON tags
// define the persisted wire format; unknown fields in a stored snapshot
// are ignored and missing fields keep their defaults on load.
//
// Fields:
//  IsActive              – true while requests are served via the secondary channel.
//  Mode                  – current operating channel (primary/secondary/mixed).
//  LastFallbackTime      – timestamp of the most recent mode transition (UTC).
//  FallbackCount         – number of fallback activations since the counters were reset.
//  SecondarySuccessCount – successful calls served by the secondary channel.
//  PrimaryFailureCount   – failed calls against the primary channel.
//  TotalRequests         – every request observed by the tracker.
type FailoverState struct {
    IsActive              bool      `json:"isActive"`
    Mode                  string    `json:"mode"`
    LastFallbackTime      time.Time `json:"lastFallbackTime"`
    FallbackCount         uint64    `json:"fallbackCount"`
    SecondarySuccessCount uint64    `json:"secondarySuccessCount"`
    PrimaryFailureCount   uint64    `json:"primaryFailureCount"`
    TotalRequests         uint64    `json:"totalRequests"`
}

// DefaultFailoverState returns the state a fresh process starts from when
// no snapshot has been persisted.
func DefaultFailoverState() FailoverState {
    return FailoverState{Mode: ModePrimary}
}

// FailoverStats is the read-only view returned to callers of the tracker.
type FailoverStats struct {
    IsActive                bool          `json:"is_active"`
    Mode                    string        `json:"mode"`
    FallbackRate            float64       `json:"fallback_rate"`
    SecondarySuccessRate    float64       `json:"secondary_success_rate"`
    TimeSinceLastTransition time.Duration `json:"time_since_last_transition"`
}
