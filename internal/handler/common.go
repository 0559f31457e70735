package handler // declare the package name; contains HTTP handlers

import (
    "encoding/json" // payloads attached to failure envelopes
    "net/http"      // HTTP status codes
    "strconv"       // parsing path parameters

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/middleware"
    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/orchestrator"
)

// statusOf maps the stable error types of the backend taxonomy onto HTTP
// status codes.  Clients key off errorType in the envelope; the status is
// there for proxies and generic tooling.
func statusOf(errType string) int {
    switch errType {
    case backend.TypeValidation:
        return http.StatusBadRequest
    case backend.TypeAuth:
        return http.StatusUnauthorized
    case backend.TypeNotOwner:
        return http.StatusForbidden
    case backend.TypeNotFound:
        return http.StatusNotFound
    case backend.TypeConflict, backend.TypeAlreadyCheckedIn:
        return http.StatusConflict
    case backend.TypeLocked:
        return http.StatusLocked
    case backend.TypeUnavailable, backend.TypeTransport, backend.TypeTimeout:
        return http.StatusServiceUnavailable
    default:
        return http.StatusInternalServerError
    }
}

// fail writes a failure envelope with the status derived from the error
// type.
func fail(c echo.Context, err error) error {
    return c.JSON(statusOf(backend.TypeOf(err)), backend.Fail(err))
}

// failWith writes a failure envelope that still carries a data payload,
// for refusals that come with authoritative state attached.
func failWith(c echo.Context, err error, v interface{}) error {
    env := backend.Fail(err)
    if raw, mErr := json.Marshal(v); mErr == nil {
        env.Data = raw
    }
    return c.JSON(statusOf(backend.TypeOf(err)), env)
}

// ok writes a success envelope.
func ok(c echo.Context, status int, v interface{}) error {
    return c.JSON(status, backend.Ok(v))
}

// session extracts the orchestrator session from the request context, as
// injected by the session middleware.
func session(c echo.Context) orchestrator.Session {
    id, _ := c.Get(middleware.CtxSessionID).(string)
    mode, _ := c.Get(middleware.CtxBypassMode).(string)
    return orchestrator.Session{ID: id, BypassMode: mode}
}

// performance parses the :group/:day/:slot path parameters.
func performance(c echo.Context) (model.Performance, error) {
    day, err := strconv.Atoi(c.Param("day"))
    if err != nil || day <= 0 {
        return model.Performance{}, backend.Errorf(backend.TypeValidation, "invalid day index")
    }
    perf := model.Performance{
        Group:    c.Param("group"),
        Day:      day,
        Timeslot: c.Param("slot"),
    }
    if !perf.Valid() {
        return model.Performance{}, backend.Errorf(backend.TypeValidation, "incomplete performance identifier")
    }
    return perf, nil
}
