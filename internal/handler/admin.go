package handler

import (
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/theatre-reservation/internal/failover"
    "github.com/iliyamo/theatre-reservation/internal/orchestrator"
)

// AdminHandler serves the administrative surface: failover statistics and
// the tracker reset.  Routes using it are guarded by the admin bypass
// middleware.
type AdminHandler struct {
    Orch    *orchestrator.Orchestrator
    Tracker *failover.Tracker
    Rotator *failover.Rotator // nil when no secondary endpoints are configured
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(orch *orchestrator.Orchestrator, tracker *failover.Tracker, rotator *failover.Rotator) *AdminHandler {
    if orch == nil || tracker == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Orch: orch, Tracker: tracker, Rotator: rotator}
}

// SystemLock handles GET /v1/system-lock, reading the authoritative lock
// flag through the failover pipeline.  The route is public: clients and
// replica consumers both poll it.
func (a *AdminHandler) SystemLock(c echo.Context) error {
    st, err := a.Orch.LockState(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, st)
}

// FailoverStats handles GET /v1/admin/failover.  Besides the tracker's
// derived stats it reports the rotator position so operators can see
// which replica this instance is pinned to.
func (a *AdminHandler) FailoverStats(c echo.Context) error {
    resp := echo.Map{"stats": a.Tracker.Stats(), "state": a.Tracker.State()}
    if a.Rotator != nil {
        endpoints := a.Rotator.All()
        names := make([]string, 0, len(endpoints))
        for _, ep := range endpoints {
            names = append(names, endpointLabel(ep))
        }
        resp["endpoints"] = names
        resp["endpoint_index"] = a.Rotator.Index()
    }
    return ok(c, http.StatusOK, resp)
}

// FailoverReset handles POST /v1/admin/failover/reset, clearing the
// tracker's counters and returning it to primary mode.
func (a *AdminHandler) FailoverReset(c echo.Context) error {
    a.Tracker.Reset()
    return ok(c, http.StatusOK, a.Tracker.State())
}

// endpointLabel renders an endpoint for the stats payload: the base URL
// for HTTP replicas, otherwise the channel name.
func endpointLabel(ep interface{ Name() string }) string {
    type based interface{ Base() string }
    if b, ok := ep.(based); ok {
        return b.Base()
    }
    return ep.Name()
}
