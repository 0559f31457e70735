package model

import "time"

// Audit event types.  One entry is appended for every state-changing
// operation; entries are never mutated after the fact.
const (
    AuditReservation = "reservation"
    AuditCheckIn     = "check_in"
    AuditCancel      = "cancel"
    AuditFallback    = "fallback"
    AuditLockBypass  = "lock_bypass"
)

// AuditEntry is the append-only record of a state-changing operation.
//
// Fields:
//  ID        – unique entry id (UUID).
//  Timestamp – when the event occurred (UTC).
//  EventType – one of the Audit* constants.
//  Action    – short verb describing the outcome (e.g. "reserved", "conflict").
//  SessionID – session the actor was operating under.
//  ActorID   – requester identity, when known.
//  Metadata  – free-form context (seat ids, channel, error type).
type AuditEntry struct {
    ID        string            `json:"id"`
    Timestamp time.Time         `json:"timestamp"`
    EventType string            `json:"event_type"`
    Action    string            `json:"action"`
    SessionID string            `json:"session_id,omitempty"`
    ActorID   string            `json:"actor_id,omitempty"`
    Metadata  map[string]string `json:"metadata,omitempty"`
}
