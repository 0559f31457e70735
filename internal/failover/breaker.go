package failover

import (
    "errors"
    "log"
    "time"

    gobreaker "github.com/sony/gobreaker/v2"

    "github.com/iliyamo/theatre-reservation/internal/backend"
)

// ErrPrimarySkipped is returned when the breaker is open and the primary
// attempt was not dispatched at all.  It is classified as a transport
// fault so the orchestrator's failover path treats it like any other
// primary failure.
var ErrPrimarySkipped = backend.Errorf(backend.TypeTransport, "primary channel circuit open")

// Breaker guards the primary channel with a circuit breaker.  Three
// consecutive transport faults open the circuit; while open, primary
// attempts are skipped proactively and requests go straight to the
// secondary channel.  Domain refusals (conflict, not_found, auth) pass
// through without counting as failures: the channel answered, the
// request was just refused.
type Breaker struct {
    cb *gobreaker.CircuitBreaker[interface{}]
}

// wrapped carries a non-transport error through the breaker as a success
// so it does not trip the circuit.
type wrapped struct {
    val interface{}
    err error
}

// NewBreaker builds the primary-channel breaker.  onRecovery is invoked
// when the circuit transitions back to closed, which the orchestrator
// wires to the tracker's explicit recovery signal.
func NewBreaker(onRecovery func()) *Breaker {
    settings := gobreaker.Settings{
        Name:        "primary-channel",
        MaxRequests: 1,                // one probe at a time while half-open
        Timeout:     30 * time.Second, // open -> half-open after 30s
        ReadyToTrip: func(counts gobreaker.Counts) bool {
            return counts.ConsecutiveFailures >= 3
        },
        OnStateChange: func(name string, from, to gobreaker.State) {
            log.Printf("failover: breaker %s %s -> %s", name, from, to)
            if to == gobreaker.StateClosed && from != gobreaker.StateClosed && onRecovery != nil {
                onRecovery()
            }
        },
    }
    return &Breaker{cb: gobreaker.NewCircuitBreaker[interface{}](settings)}
}

// Execute runs fn under the breaker.  Only transport faults count as
// breaker failures; every other error is smuggled through as a success
// and unwrapped on the way out.  An open circuit yields ErrPrimarySkipped.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
    out, err := b.cb.Execute(func() (interface{}, error) {
        v, err := fn()
        if err != nil && !backend.IsTransport(err) {
            return wrapped{val: v, err: err}, nil
        }
        return v, err
    })
    if err != nil {
        if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
            return nil, ErrPrimarySkipped
        }
        return nil, err
    }
    if w, ok := out.(wrapped); ok {
        return w.val, w.err
    }
    return out, nil
}

// Open reports whether the circuit currently rejects primary attempts.
func (b *Breaker) Open() bool { return b.cb.State() == gobreaker.StateOpen }

// Probing reports whether the circuit is half-open, i.e. the primary is
// being probed while fallback may still be serving traffic.  The
// orchestrator marks the tracker's mixed mode off this signal.
func (b *Breaker) Probing() bool { return b.cb.State() == gobreaker.StateHalfOpen }
