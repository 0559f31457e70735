// Package audit appends the immutable trail of state-changing operations:
// reservation outcomes, fallback transitions and lock bypasses.  Entries
// are published to the message broker and written to disk by the
// background consumer; a broker outage degrades the trail, never the
// request that produced the entry.
package audit

import (
    "sync"

    "github.com/google/uuid"

    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/utils"
)

// Sink receives completed audit entries.  Record must never block the
// caller on broker I/O and must never fail the originating operation.
type Sink interface {
    Record(entry model.AuditEntry)
}

// NewEntry stamps id and timestamp on a fresh entry.
func NewEntry(eventType, action, sessionID, actorID string, metadata map[string]string) model.AuditEntry {
    return model.AuditEntry{
        ID:        uuid.NewString(),
        Timestamp: utils.NowUTC(),
        EventType: eventType,
        Action:    action,
        SessionID: sessionID,
        ActorID:   actorID,
        Metadata:  metadata,
    }
}

// Memory collects entries in process memory; used by tests and as a
// fallback when no broker is configured.
type Memory struct {
    mu      sync.Mutex
    entries []model.AuditEntry
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory { return &Memory{} }

// Record appends the entry.
func (m *Memory) Record(entry model.AuditEntry) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.entries = append(m.entries, entry)
}

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []model.AuditEntry {
    m.mu.Lock()
    defer m.mu.Unlock()
    return append([]model.AuditEntry(nil), m.entries...)
}
