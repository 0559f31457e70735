package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/google/uuid"      // anonymous session id generation
    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/utils"
)

// Context keys under which the session claims are stored.
const (
    CtxSessionID  = "session_id"
    CtxBypassMode = "bypass_mode"
)

// Session returns an Echo middleware that reads an optional Bearer
// session token and injects the session id and any granted bypass mode
// into the request context.  A request without a token gets a fresh
// session id; a request with an invalid token is rejected, since a caller
// presenting a token expects its bypass grant to be honored.
func Session(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                // Anonymous session: mint an id for this request so
                // ownership checks still have an identity to bind to.
                id := uuid.NewString()
                tok, err := utils.NewSessionToken(secret, id, "", utils.SessionTTL)
                if err != nil {
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session setup failed"})
                }
                c.Set(CtxSessionID, id)
                c.Set(CtxBypassMode, "")
                // Expose the fresh token so the client can keep the session.
                c.Response().Header().Set("X-Session-Token", tok.Token)
                return next(c)
            }
            raw := strings.TrimPrefix(auth, "Bearer ")
            claims, err := utils.ParseSessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
            }
            c.Set(CtxSessionID, claims.SessionID)
            c.Set(CtxBypassMode, claims.BypassMode)
            return next(c)
        }
    }
}

// RequireAdmin guards the administrative surface: the session must carry
// a verified "admin" bypass grant.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if mode, _ := c.Get(CtxBypassMode).(string); mode != model.BypassModeAdmin {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "admin bypass required"})
            }
            return next(c)
        }
    }
}
