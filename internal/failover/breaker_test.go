package failover

import (
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/backend"
)

func TestBreakerOpensAfterConsecutiveTransportFaults(t *testing.T) {
    b := NewBreaker(nil)
    boom := backend.Errorf(backend.TypeTransport, "connection refused")

    for i := 0; i < 3; i++ {
        _, err := b.Execute(func() (interface{}, error) { return nil, boom })
        require.Error(t, err)
    }
    assert.True(t, b.Open())

    // While open the call is skipped entirely.
    called := false
    _, err := b.Execute(func() (interface{}, error) {
        called = true
        return nil, nil
    })
    require.Error(t, err)
    assert.True(t, errors.Is(err, ErrPrimarySkipped))
    assert.True(t, backend.IsTransport(err))
    assert.False(t, called)
}

func TestBreakerIgnoresDomainRefusals(t *testing.T) {
    b := NewBreaker(nil)

    // Conflicts are answers, not faults: they pass through unchanged and
    // never trip the circuit.
    for i := 0; i < 10; i++ {
        v, err := b.Execute(func() (interface{}, error) { return "seat", backend.ErrConflict })
        assert.True(t, errors.Is(err, backend.ErrConflict))
        assert.Equal(t, "seat", v)
    }
    assert.False(t, b.Open())
}

func TestBreakerPassesValuesThrough(t *testing.T) {
    b := NewBreaker(nil)
    v, err := b.Execute(func() (interface{}, error) { return 42, nil })
    require.NoError(t, err)
    assert.Equal(t, 42, v)
}
