package gate

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
)

func newTestGate(locked bool, message string, password string) *Gate {
    read := func(ctx context.Context) (model.SystemLockState, error) {
        return model.SystemLockState{IsLocked: locked, Message: message}, nil
    }
    verify := func(ctx context.Context, mode, pw string) (bool, error) {
        return pw == password, nil
    }
    return New(read, verify)
}

func TestGateCheck(t *testing.T) {
    g := newTestGate(true, "Maintenance", "secret")
    g.Poll(context.Background())

    err := g.Check("")
    require.Error(t, err)
    assert.Equal(t, backend.TypeLocked, backend.TypeOf(err))
    assert.Contains(t, err.Error(), "Maintenance")

    // Both bypass modes pass the gate.
    assert.NoError(t, g.Check(model.BypassModeSystemLock))
    assert.NoError(t, g.Check(model.BypassModeAdmin))
}

func TestGateUnlockedPassesEveryone(t *testing.T) {
    g := newTestGate(false, "", "secret")
    g.Poll(context.Background())
    assert.NoError(t, g.Check(""))
}

func TestGatePollKeepsCacheOnFailure(t *testing.T) {
    locked := model.SystemLockState{IsLocked: true, Message: "Maintenance"}
    fail := errors.New("backend down")
    healthy := true
    g := New(
        func(ctx context.Context) (model.SystemLockState, error) {
            if healthy {
                return locked, nil
            }
            return model.SystemLockState{}, fail
        },
        func(ctx context.Context, mode, pw string) (bool, error) { return false, nil },
    )

    g.Poll(context.Background())
    require.True(t, g.IsLocked())

    // A failing poll must not spuriously unlock the system.
    healthy = false
    g.Poll(context.Background())
    assert.True(t, g.IsLocked())
    assert.Equal(t, "Maintenance", g.LockMessage())
}

func TestVerifyBypass(t *testing.T) {
    g := newTestGate(true, "Maintenance", "secret")

    assert.NoError(t, g.VerifyBypass(context.Background(), model.BypassModeSystemLock, "secret"))

    err := g.VerifyBypass(context.Background(), model.BypassModeSystemLock, "wrong")
    require.Error(t, err)
    assert.Equal(t, backend.TypeAuth, backend.TypeOf(err))

    err = g.VerifyBypass(context.Background(), "made_up_mode", "secret")
    require.Error(t, err)
    assert.Equal(t, backend.TypeAuth, backend.TypeOf(err))
}
