package handler

import (
    "errors"   // sentinel matching for refusals that carry state
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
    "github.com/iliyamo/theatre-reservation/internal/orchestrator"
    "github.com/iliyamo/theatre-reservation/internal/utils"
)

// ReservationHandler exposes the seat operations over the JSON envelope
// wire format.  The same routes serve human clients and other instances
// using this one as their secondary endpoint, so every response is an
// envelope and every failure carries its stable errorType.
type ReservationHandler struct {
    Orch *orchestrator.Orchestrator
}

// NewReservationHandler constructs the handler.  The orchestrator must be
// non-nil.
func NewReservationHandler(orch *orchestrator.Orchestrator) *ReservationHandler {
    if orch == nil {
        panic("nil orchestrator passed to NewReservationHandler")
    }
    return &ReservationHandler{Orch: orch}
}

// GetSeats handles GET /v1/performances/:group/:day/:slot/seats.  It
// refreshes the ledger from whichever channel is healthy and answers with
// {"seats": [...], "grid": [...]}: the flat stored set is what replica
// consumers decode (it must round-trip losslessly through
// backend.HTTPChannel), the grid is the derived presentation view.
// ?admin=1 includes seats without a parseable position in the grid.
func (h *ReservationHandler) GetSeats(c echo.Context) error {
    perf, err := performance(c)
    if err != nil {
        return fail(c, err)
    }
    isAdmin := c.QueryParam("admin") == "1" || c.QueryParam("admin") == "true"
    seats, rows, err := h.Orch.Seats(c.Request().Context(), perf, isAdmin)
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, echo.Map{"seats": seats, "grid": rows})
}

// Reserve handles POST /v1/performances/:group/:day/:slot/reserve.  The
// body carries {"seat_ids": [...], "requester_id": "..."}; an absent
// requester id defaults to the session id.  The whole batch commits or
// nothing does.
func (h *ReservationHandler) Reserve(c echo.Context) error {
    perf, err := performance(c)
    if err != nil {
        return fail(c, err)
    }
    var body struct {
        SeatIDs     []string `json:"seat_ids"`
        RequesterID string   `json:"requester_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    sess := session(c)
    if body.RequesterID == "" {
        body.RequesterID = sess.ID
    }
    req := model.ReservationRequest{
        RequesterID: body.RequesterID,
        Performance: perf,
        SeatIDs:     body.SeatIDs,
        SubmittedAt: utils.NowUTC(),
    }
    res, err := h.Orch.Submit(c.Request().Context(), sess, req)
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusCreated, res)
}

// CheckIn handles POST /v1/performances/:group/:day/:slot/check-in with a
// single seat id.  Batch check-in is a caller-side loop over this route;
// an already checked-in seat answers with its authoritative state and the
// already_checked_in error type.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
    perf, err := performance(c)
    if err != nil {
        return fail(c, err)
    }
    var body struct {
        SeatID string `json:"seat_id"`
    }
    if err := c.Bind(&body); err != nil || body.SeatID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
    }
    seat, err := h.Orch.CheckIn(c.Request().Context(), session(c), perf, body.SeatID)
    if err != nil {
        // The refusal envelope still carries the authoritative seat so
        // replica consumers keep their per-seat reporting.
        if errors.Is(err, backend.ErrAlreadyCheckedIn) {
            return failWith(c, err, seat)
        }
        return fail(c, err)
    }
    return ok(c, http.StatusOK, seat)
}

// Cancel handles POST /v1/performances/:group/:day/:slot/cancel.  Only
// the owning requester may release a seat.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    perf, err := performance(c)
    if err != nil {
        return fail(c, err)
    }
    var body struct {
        SeatID      string `json:"seat_id"`
        RequesterID string `json:"requester_id"`
    }
    if err := c.Bind(&body); err != nil || body.SeatID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
    }
    sess := session(c)
    if body.RequesterID == "" {
        body.RequesterID = sess.ID
    }
    seat, err := h.Orch.Cancel(c.Request().Context(), sess, perf, body.SeatID, body.RequesterID)
    if err != nil {
        return fail(c, err)
    }
    return ok(c, http.StatusOK, seat)
}
