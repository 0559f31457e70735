package utils // package utils provides helper functions for token creation and hashing

import (
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // session id generation
)

// SessionToken represents a signed HS256 JWT identifying a reservation
// session, along with its expiry.  Sessions carry no user identity beyond
// the generated session id; a verified lock bypass is recorded as an extra
// claim on a re-issued token rather than in any server-side store, which
// is what scopes the bypass to the session that earned it.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// SessionClaims is the decoded form of a session token.
type SessionClaims struct {
    SessionID  string // stable id of the session (sub claim)
    BypassMode string // bypass mode granted to this session, if any
}

// NowUTC returns the current time in UTC.  Kept in one place so that
// timestamps written by different packages compare consistently.
func NowUTC() time.Time { return time.Now().UTC() }

// SessionTTL bounds how long a session token (and with it any bypass
// grant) stays valid.  Long enough to cover an evening of reservations,
// short enough that a leaked bypass token ages out the same day.
const SessionTTL = 12 * time.Hour

// NewSessionToken builds and signs a session JWT.  sessionID may be empty,
// in which case a fresh UUID is generated.  bypassMode is recorded as the
// "bypass" claim when non-empty.  The token includes standard claims:
// subject (sub), expiration (exp) and issued at (iat).
func NewSessionToken(secret, sessionID, bypassMode string, ttl time.Duration) (SessionToken, error) {
    if sessionID == "" {
        sessionID = uuid.NewString()
    }
    exp := NowUTC().Add(ttl)
    claims := jwt.MapClaims{
        "sub": sessionID,
        "exp": exp.Unix(),
        "iat": NowUTC().Unix(),
    }
    if bypassMode != "" {
        claims["bypass"] = bypassMode
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session JWT and extracts its claims.  The
// signing method must be HMAC; anything else is rejected.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrSignatureInvalid
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        if err == nil {
            err = jwt.ErrTokenUnverifiable
        }
        return SessionClaims{}, err
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return SessionClaims{}, jwt.ErrTokenInvalidClaims
    }
    var out SessionClaims
    if sub, ok := claims["sub"].(string); ok {
        out.SessionID = sub
    }
    if bp, ok := claims["bypass"].(string); ok {
        out.BypassMode = bp
    }
    return out, nil
}
