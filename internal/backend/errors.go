package backend

import (
    "context"
    "errors"
    "fmt"
    "net"
)

// Stable error types carried on every surfaced failure.  Presentation
// layers key off these values and never parse free-text messages.
const (
    TypeTransport        = "transport"
    TypeTimeout          = "timeout"
    TypeConflict         = "conflict"
    TypeValidation       = "validation"
    TypeLocked           = "locked"
    TypeAuth             = "auth"
    TypeNotFound         = "not_found"
    TypeNotOwner         = "not_owner"
    TypeAlreadyCheckedIn = "already_checked_in"
    TypeUnavailable      = "unavailable"
)

// Error is the uniform failure value produced by channels and translated
// by handlers.  Type is one of the Type* constants; Offline and Timeout
// mirror the envelope flags of the wire format.
type Error struct {
    Type    string
    Message string
    Offline bool
    Timeout bool
}

// Error implements the error interface.
func (e *Error) Error() string {
    if e.Message == "" {
        return e.Type
    }
    return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Is makes errors.Is match any *Error with the same Type, so sentinel
// comparisons work across channel boundaries.
func (e *Error) Is(target error) bool {
    t, ok := target.(*Error)
    return ok && t.Type == e.Type
}

// Sentinel errors for the common failure types.  Channels may return these
// directly or wrap a message via Errorf with the same type.
var (
    ErrConflict         = &Error{Type: TypeConflict, Message: "seat no longer available"}
    ErrNotFound         = &Error{Type: TypeNotFound, Message: "seat not found"}
    ErrNotOwner         = &Error{Type: TypeNotOwner, Message: "reservation owned by another session"}
    ErrAlreadyCheckedIn = &Error{Type: TypeAlreadyCheckedIn, Message: "seat already checked in"}
)

// Errorf builds an *Error of the given type with a formatted message.
func Errorf(typ, format string, args ...interface{}) *Error {
    return &Error{Type: typ, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a low-level network failure, tagging it offline and,
// when the underlying error was a deadline, as a timeout.
func Transport(err error) *Error {
    e := &Error{Type: TypeTransport, Message: err.Error(), Offline: true}
    var nerr net.Error
    if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
        e.Type = TypeTimeout
        e.Timeout = true
    }
    return e
}

// TypeOf extracts the stable type from err, defaulting to transport for
// anything that is not an *Error: an unclassified failure from a channel
// is by definition a fault of the channel, not of the request.
func TypeOf(err error) string {
    var e *Error
    if errors.As(err, &e) {
        return e.Type
    }
    return TypeTransport
}

// IsTransport reports whether err represents a channel fault (network
// unreachable or timeout) that should trigger failover.  Conflicts,
// validation failures and auth failures are never transport faults.
func IsTransport(err error) bool {
    t := TypeOf(err)
    return t == TypeTransport || t == TypeTimeout
}
