// Package gate implements the system-wide lock: a remotely controlled
// flag that suspends all mutating operations until cleared, with a
// password-verified, session-scoped bypass.
package gate

import (
    "context"
    "log"
    "sync"

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
)

// LockReader fetches the current lock flag; the orchestrator supplies one
// bound to whichever channel currently serves reads.
type LockReader func(ctx context.Context) (model.SystemLockState, error)

// Verifier checks a bypass password against a named mode on the backend.
type Verifier func(ctx context.Context, mode, password string) (bool, error)

// Gate polls the remote lock flag and arbitrates mutating calls.  The
// flag itself is cached only between polls and never persisted; a granted
// bypass lives in the caller's session token, so the gate itself stays
// stateless across restarts and never alters the remote lock.
type Gate struct {
    mu     sync.RWMutex
    state  model.SystemLockState
    read   LockReader
    verify Verifier
}

// New constructs a Gate.  Both dependencies are required.
func New(read LockReader, verify Verifier) *Gate {
    if read == nil || verify == nil {
        panic("nil dependency passed to gate.New")
    }
    return &Gate{read: read, verify: verify}
}

// Poll refreshes the cached lock flag.  On failure the previous value is
// kept: a degraded backend must not spuriously unlock the system.
func (g *Gate) Poll(ctx context.Context) {
    st, err := g.read(ctx)
    if err != nil {
        log.Printf("gate: lock poll failed, keeping cached state: %v", err)
        return
    }
    g.mu.Lock()
    g.state = st
    g.mu.Unlock()
}

// IsLocked reports the cached lock flag.
func (g *Gate) IsLocked() bool {
    g.mu.RLock()
    defer g.mu.RUnlock()
    return g.state.IsLocked
}

// LockMessage returns the operator-facing message of the current lock.
func (g *Gate) LockMessage() string {
    g.mu.RLock()
    defer g.mu.RUnlock()
    return g.state.Message
}

// State returns the cached lock state.
func (g *Gate) State() model.SystemLockState {
    g.mu.RLock()
    defer g.mu.RUnlock()
    return g.state
}

// Check gates a mutating operation for the session holding bypassMode.
// While locked it returns a locked error carrying the lock message,
// unless the session has been granted a bypass for the system lock or the
// administrative mode (which implies it).
func (g *Gate) Check(bypassMode string) error {
    g.mu.RLock()
    st := g.state
    g.mu.RUnlock()
    if !st.IsLocked {
        return nil
    }
    switch bypassMode {
    case model.BypassModeSystemLock, model.BypassModeAdmin:
        return nil
    }
    msg := st.Message
    if msg == "" {
        msg = "system is locked"
    }
    return &backend.Error{Type: backend.TypeLocked, Message: msg}
}

// VerifyBypass checks a password for the named mode against the backend.
// A wrong password surfaces as an auth error; the gate stores nothing on
// success, the caller records the grant in the session token.
func (g *Gate) VerifyBypass(ctx context.Context, mode, password string) error {
    if mode != model.BypassModeSystemLock && mode != model.BypassModeAdmin {
        return backend.Errorf(backend.TypeAuth, "unknown bypass mode %q", mode)
    }
    ok, err := g.verify(ctx, mode, password)
    if err != nil {
        return err
    }
    if !ok {
        return backend.Errorf(backend.TypeAuth, "invalid password for mode %q", mode)
    }
    return nil
}
