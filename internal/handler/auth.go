package handler

import (
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/theatre-reservation/internal/orchestrator"
    "github.com/iliyamo/theatre-reservation/internal/utils"
)

// AuthHandler serves the bypass verification endpoint.  There is no user
// registry: the only credentials in the system are the shared mode
// passwords, and a successful verification is answered with a re-issued
// session token carrying the bypass grant.
type AuthHandler struct {
    Orch      *orchestrator.Orchestrator
    JWTSecret string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(orch *orchestrator.Orchestrator, jwtSecret string) *AuthHandler {
    if orch == nil {
        panic("nil orchestrator passed to NewAuthHandler")
    }
    return &AuthHandler{Orch: orch, JWTSecret: jwtSecret}
}

// VerifyMode handles POST /v1/auth/verify-mode.  The body carries
// {"mode": "...", "password": "..."}.  On success the response data is
// {verified, token}: the token is the caller's session re-signed with the
// bypass claim, which is what scopes the grant to this session.  The
// remote lock flag itself is never modified.
func (a *AuthHandler) VerifyMode(c echo.Context) error {
    var body struct {
        Mode     string `json:"mode"`
        Password string `json:"password"`
    }
    if err := c.Bind(&body); err != nil || body.Mode == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode and password are required"})
    }
    sess := session(c)
    if err := a.Orch.VerifyBypass(c.Request().Context(), sess, body.Mode, body.Password); err != nil {
        return fail(c, err)
    }
    tok, err := utils.NewSessionToken(a.JWTSecret, sess.ID, body.Mode, utils.SessionTTL)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
    }
    return ok(c, http.StatusOK, echo.Map{
        "verified": true,
        "token":    tok.Token,
        "expires":  tok.Exp,
    })
}
