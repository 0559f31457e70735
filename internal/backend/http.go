package backend

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/iliyamo/theatre-reservation/internal/model"
)

// HTTPChannel talks to a secondary replica over the JSON envelope wire
// format.  Replicas expose the same /v1 routes as this service, so any
// instance can serve as another's secondary endpoint.  Every request is
// bounded by the configured timeout in addition to the caller's context.
type HTTPChannel struct {
    base    string
    client  *http.Client
    timeout time.Duration
}

// NewHTTPChannel builds a channel against the given base URL
// (e.g. "https://replica-1.example.com").  A trailing slash is tolerated.
func NewHTTPChannel(base string, timeout time.Duration) *HTTPChannel {
    return &HTTPChannel{
        base:    strings.TrimRight(base, "/"),
        client:  &http.Client{Timeout: timeout},
        timeout: timeout,
    }
}

// Name identifies the channel in logs and reservation records.
func (h *HTTPChannel) Name() string { return ChannelSecondary }

// Base returns the endpoint URL this channel targets.
func (h *HTTPChannel) Base() string { return h.base }

// call performs one round trip and decodes the envelope.  Network and
// decode failures become transport errors; failure envelopes are
// reconstructed into the *Error the remote side produced.
func (h *HTTPChannel) call(ctx context.Context, method, path string, body, out interface{}) error {
    ctx, cancel := context.WithTimeout(ctx, h.timeout)
    defer cancel()

    var rd io.Reader
    if body != nil {
        buf, err := json.Marshal(body)
        if err != nil {
            return Transport(err)
        }
        rd = bytes.NewReader(buf)
    }
    req, err := http.NewRequestWithContext(ctx, method, h.base+path, rd)
    if err != nil {
        return Transport(err)
    }
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    resp, err := h.client.Do(req)
    if err != nil {
        return Transport(err)
    }
    defer func() { _ = resp.Body.Close() }()

    var env Envelope
    if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
        return Transport(err)
    }
    if !env.Success {
        // A refusal may still carry authoritative state (an
        // already_checked_in seat); decode it before surfacing the error.
        if out != nil && len(env.Data) > 0 {
            _ = json.Unmarshal(env.Data, out)
        }
        return env.Err()
    }
    if out != nil {
        if err := json.Unmarshal(env.Data, out); err != nil {
            return Transport(err)
        }
    }
    return nil
}

// perfPath builds the URL prefix for a performance, escaping the group and
// timeslot labels which may contain spaces or non-ASCII characters.
func perfPath(perf model.Performance) string {
    return fmt.Sprintf("/v1/performances/%s/%d/%s",
        url.PathEscape(perf.Group), perf.Day, url.PathEscape(perf.Timeslot))
}

// GetSystemLock fetches the global lock flag from the replica.
func (h *HTTPChannel) GetSystemLock(ctx context.Context) (model.SystemLockState, error) {
    var st model.SystemLockState
    err := h.call(ctx, http.MethodGet, "/v1/system-lock", nil, &st)
    return st, err
}

// VerifyModePassword checks a bypass password for the named mode.  The
// remote side answers a successful verification with {verified: true};
// a wrong password comes back as a failure envelope with the auth type.
func (h *HTTPChannel) VerifyModePassword(ctx context.Context, mode, password string) (bool, error) {
    var out struct {
        Verified bool `json:"verified"`
    }
    body := map[string]string{"mode": mode, "password": password}
    if err := h.call(ctx, http.MethodPost, "/v1/auth/verify-mode", body, &out); err != nil {
        return false, err
    }
    return out.Verified, nil
}

// GetSeatData returns every seat of the performance.  The seats route
// answers {"seats": [...], "grid": [...]}; only the flat stored set is
// decoded here, a replica derives its own grid locally.
func (h *HTTPChannel) GetSeatData(ctx context.Context, perf model.Performance, isAdmin bool) ([]model.Seat, error) {
    path := perfPath(perf) + "/seats"
    if isAdmin {
        path += "?admin=1"
    }
    var out struct {
        Seats []model.Seat `json:"seats"`
    }
    err := h.call(ctx, http.MethodGet, path, nil, &out)
    return out.Seats, err
}

// ReserveSeats atomically claims the batch on the replica.
func (h *HTTPChannel) ReserveSeats(ctx context.Context, perf model.Performance, seatIDs []string, requesterID string) (model.Reservation, error) {
    body := map[string]interface{}{"seat_ids": seatIDs, "requester_id": requesterID}
    var res model.Reservation
    err := h.call(ctx, http.MethodPost, perfPath(perf)+"/reserve", body, &res)
    return res, err
}

// CheckInSeat moves a single reserved seat to checked_in.
func (h *HTTPChannel) CheckInSeat(ctx context.Context, perf model.Performance, seatID string) (model.Seat, error) {
    body := map[string]string{"seat_id": seatID}
    var seat model.Seat
    err := h.call(ctx, http.MethodPost, perfPath(perf)+"/check-in", body, &seat)
    return seat, err
}

// CancelReservation returns a reserved seat to available when the
// requester owns it.
func (h *HTTPChannel) CancelReservation(ctx context.Context, perf model.Performance, seatID, requesterID string) (model.Seat, error) {
    body := map[string]string{"seat_id": seatID, "requester_id": requesterID}
    var seat model.Seat
    err := h.call(ctx, http.MethodPost, perfPath(perf)+"/cancel", body, &seat)
    return seat, err
}
