// Package backend is the HTTP client for the Parkiez backend REST API.
//
// Every call is bounded by the configured timeout and the caller's context.
// Failures are returned as domain errors: backend 401 responses map to
// EUNAUTHORIZED, 4xx responses keep the server's message, and transport
// failures map to EUNAVAILABLE.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/metrics"
)

// API paths, relative to the backend base URL.
const (
	SignInPath       = "/api/auth/signin"
	GetParkingsPath  = "/api/operator/getParkings"
	AddAttendantPath = "/api/operator/addAttendant"
)

// Endpoint labels used for metrics and logs.
const (
	endpointSignIn       = "signin"
	endpointGetParkings  = "get_parkings"
	endpointAddAttendant = "add_attendant"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the Parkiez backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a backend client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// Credentials is the signin request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResponse is the signin response body.
type SignInResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

type parkingsQuery struct {
	PhoneNo string `url:"phoneNo"`
}

// SignIn exchanges operator credentials for a backend access token.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (*domain.Operator, error) {
	const op = "backend.SignIn"

	var resp SignInResponse
	if err := c.do(ctx, op, endpointSignIn, http.MethodPost, SignInPath, "", creds, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, domain.Errorf(domain.EINTERNAL, op, "signin response carried no access token")
	}

	username := resp.Username
	if username == "" {
		username = creds.Username
	}
	return &domain.Operator{Username: username, AccessToken: resp.AccessToken}, nil
}

// ListParkings returns the parking areas owned by the operator.
func (c *Client) ListParkings(ctx context.Context, operator *domain.Operator) ([]domain.ParkingOption, error) {
	const op = "backend.ListParkings"
	if operator == nil {
		return nil, domain.Unauthorized(op, "no operator session")
	}

	v, err := query.Values(parkingsQuery{PhoneNo: operator.Username})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode query")
	}

	var wire []parkingWire
	if err := c.do(ctx, op, endpointGetParkings, http.MethodGet, GetParkingsPath+"?"+v.Encode(), operator.AuthorizationHeader(), nil, &wire); err != nil {
		return nil, err
	}

	parkings := make([]domain.ParkingOption, 0, len(wire))
	for _, p := range wire {
		parkings = append(parkings, domain.ParkingOption{ParkingID: string(p.ParkingID), Title: p.Title})
	}
	return parkings, nil
}

// AddAttendant registers a new attendant under the operator.
func (c *Client) AddAttendant(ctx context.Context, operator *domain.Operator, in domain.AttendantInput) error {
	const op = "backend.AddAttendant"
	if operator == nil {
		return domain.Unauthorized(op, "no operator session")
	}
	return c.do(ctx, op, endpointAddAttendant, http.MethodPost, AddAttendantPath, operator.AuthorizationHeader(), in, nil)
}

// do executes one request. A nil body sends no payload; a nil out discards
// the response body.
func (c *Client) do(ctx context.Context, op, endpoint, method, path, authorization string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return domain.Internal(err, op, "failed to encode request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Internal(err, op, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendCall(endpoint, 0, time.Since(start))
		c.logger.WarnContext(ctx, "backend request failed",
			"endpoint", endpoint,
			"error", err,
		)
		if errors.Is(err, context.Canceled) {
			return domain.Wrap(err, domain.EUNAVAILABLE, op, "request was cancelled")
		}
		return domain.Unavailable(err, op, "Parkiez service is unavailable. Please try again.")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	duration := time.Since(start)
	metrics.BackendCall(endpoint, resp.StatusCode, duration)
	if err != nil {
		return domain.Unavailable(err, op, "failed to read backend response")
	}

	c.logger.DebugContext(ctx, "backend request",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapHTTPError(op, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return domain.Internal(err, op, "failed to decode backend response")
	}
	return nil
}

// mapHTTPError converts a non-2xx backend response into a domain error.
func mapHTTPError(op string, status int, body []byte) error {
	message := extractMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		if message == "" {
			message = "Your session has expired. Please sign in again."
		}
		return domain.Errorf(domain.EUNAUTHORIZED, op, "%s", message)
	case status == http.StatusForbidden:
		return domain.Errorf(domain.EFORBIDDEN, op, "%s", orDefault(message, "You do not have permission to do that."))
	case status == http.StatusNotFound:
		return domain.Errorf(domain.ENOTFOUND, op, "%s", orDefault(message, "Not found."))
	case status == http.StatusConflict:
		return domain.Errorf(domain.ECONFLICT, op, "%s", orDefault(message, "Already exists."))
	case status == http.StatusTooManyRequests:
		return domain.Errorf(domain.ERATELIMIT, op, "%s", orDefault(message, "Too many requests. Please try again later."))
	case status >= 400 && status < 500:
		if message == "" {
			return domain.Errorf(domain.EINTERNAL, op, "backend rejected request (status %d)", status)
		}
		return domain.Errorf(domain.EINVALID, op, "%s", message)
	default:
		if message == "" {
			return domain.Errorf(domain.EINTERNAL, op, "backend error (status %d)", status)
		}
		return domain.Unavailable(fmt.Errorf("backend status %d", status), op, message)
	}
}

// extractMessage pulls a human-readable message from an error body. The
// backend answers with either plain text or JSON carrying "message" or "error".
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '{' {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			return strings.TrimSpace(orDefault(payload.Message, payload.Error))
		}
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}

	if trimmed[0] == '<' {
		return ""
	}
	return string(trimmed)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// parkingWire is the getParkings element. The backend may send parkingId as
// a JSON number or a string.
type parkingWire struct {
	ParkingID flexibleID `json:"parkingId"`
	Title     string     `json:"title"`
}

type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}
