package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/theatre-reservation/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/theatre-reservation/internal/middleware" // session and admin middleware
)

// RegisterRoutes wires every endpoint of the service.  All /v1 routes run
// the session middleware so handlers always have a session identity; the
// admin group additionally requires a verified admin bypass.  The /v1
// surface doubles as the secondary-channel wire format, so the route
// shapes here must stay in sync with the HTTP channel client.
func RegisterRoutes(e *echo.Echo, r *handler.ReservationHandler, a *handler.AuthHandler, adm *handler.AdminHandler, jwtSecret string) {
	// Health check outside the session group: load balancers probe it
	// without carrying tokens.
	e.GET("/v1/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.Session(jwtSecret))

	// Lock flag and bypass verification.
	v1.GET("/system-lock", adm.SystemLock)
	v1.POST("/auth/verify-mode", a.VerifyMode)

	// Seat operations, scoped to one performance per request.
	perf := v1.Group("/performances/:group/:day/:slot")
	perf.GET("/seats", r.GetSeats)
	perf.POST("/reserve", r.Reserve)
	perf.POST("/check-in", r.CheckIn)
	perf.POST("/cancel", r.Cancel)

	// Administrative surface: requires the admin bypass grant.
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/failover", adm.FailoverStats)
	admin.POST("/failover/reset", adm.FailoverReset)
}
