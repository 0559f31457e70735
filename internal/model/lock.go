package model

// SystemLockState mirrors the remotely-controlled lock flag.  It is
// fetched on every poll and cached only until the next poll; the flag is
// never persisted locally.
//
// Fields:
//  IsLocked – true while all mutating operations are suspended.
//  Message  – human-readable reason shown to rejected callers.
type SystemLockState struct {
    IsLocked bool   `json:"isLocked"`
    Message  string `json:"message"`
}

// Bypass modes accepted by password verification.  BypassModeSystemLock
// grants a temporary unlock for the current session; BypassModeAdmin
// additionally opens the administrative surface.
const (
    BypassModeSystemLock = "system_lock"
    BypassModeAdmin      = "admin"
)
