package backend

import "encoding/json"

// Envelope is the uniform wire format of every backend call.  Success
// responses carry Data; failures carry Error, ErrorType and the
// offline/timeout flags.  The same shape is produced by this service's own
// HTTP handlers, which is what lets one instance serve as another's
// secondary endpoint.
type Envelope struct {
    Success   bool            `json:"success"`
    Data      json.RawMessage `json:"data,omitempty"`
    Error     string          `json:"error,omitempty"`
    ErrorType string          `json:"errorType,omitempty"`
    Offline   bool            `json:"offline,omitempty"`
    Timeout   bool            `json:"timeout,omitempty"`
}

// Ok wraps a payload in a success envelope.  Marshalling the payload here
// keeps handlers to a single return statement; a payload that cannot be
// marshalled is a programming error and reported as a transport failure.
func Ok(v interface{}) Envelope {
    raw, err := json.Marshal(v)
    if err != nil {
        return Fail(Transport(err))
    }
    return Envelope{Success: true, Data: raw}
}

// Fail wraps an error in a failure envelope, preserving the stable type
// and the offline/timeout flags when err is an *Error.
func Fail(err error) Envelope {
    env := Envelope{Error: err.Error(), ErrorType: TypeOf(err)}
    if e, ok := err.(*Error); ok {
        env.Offline = e.Offline
        env.Timeout = e.Timeout
    }
    return env
}

// Err reconstructs the *Error carried by a failure envelope.
func (e Envelope) Err() *Error {
    typ := e.ErrorType
    if typ == "" {
        typ = TypeTransport
    }
    return &Error{Type: typ, Message: e.Error, Offline: e.Offline, Timeout: e.Timeout}
}
