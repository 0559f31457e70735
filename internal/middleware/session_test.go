package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/utils"
)

const testSecret = "test-secret"

// run sends one request through the session middleware and captures the
// context values the downstream handler sees.
func run(t *testing.T, authorization string) (*httptest.ResponseRecorder, string, string) {
    t.Helper()
    e := echo.New()
    var gotID, gotMode string
    h := Session(testSecret)(func(c echo.Context) error {
        gotID, _ = c.Get(CtxSessionID).(string)
        gotMode, _ = c.Get(CtxBypassMode).(string)
        return c.NoContent(http.StatusOK)
    })
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authorization != "" {
        req.Header.Set("Authorization", authorization)
    }
    rec := httptest.NewRecorder()
    require.NoError(t, h(e.NewContext(req, rec)))
    return rec, gotID, gotMode
}

func TestSessionMintsAnonymousIdentity(t *testing.T) {
    rec, gotID, gotMode := run(t, "")

    assert.Equal(t, http.StatusOK, rec.Code)
    require.NotEmpty(t, gotID)
    assert.Empty(t, gotMode)

    // The minted token in the response header identifies the same session
    // the handler saw.
    tok := rec.Header().Get("X-Session-Token")
    require.NotEmpty(t, tok)
    claims, err := utils.ParseSessionToken(testSecret, tok)
    require.NoError(t, err)
    assert.Equal(t, gotID, claims.SessionID)
}

func TestSessionRejectsInvalidToken(t *testing.T) {
    rec, _, _ := run(t, "Bearer not-a-token")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionCarriesBypassGrant(t *testing.T) {
    tok, err := utils.NewSessionToken(testSecret, "sess-1", model.BypassModeAdmin, utils.SessionTTL)
    require.NoError(t, err)

    rec, gotID, gotMode := run(t, "Bearer "+tok.Token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "sess-1", gotID)
    assert.Equal(t, model.BypassModeAdmin, gotMode)
}

func TestRequireAdmin(t *testing.T) {
    e := echo.New()
    h := RequireAdmin()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set(CtxBypassMode, model.BypassModeAdmin)
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    rec = httptest.NewRecorder()
    c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
    c.Set(CtxBypassMode, model.BypassModeSystemLock)
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
