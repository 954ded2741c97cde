package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DukeRupert/parkiez/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Error Response Tests
// =============================================================================

func TestErrorResponse_ValidationTextHidesFields(t *testing.T) {
	errs := domain.AttendantValidator{}.All(domain.AttendantInput{Name: "Al"})
	ve := domain.NewValidationError("AttendantService.Create", errs)

	req := httptest.NewRequest("POST", "/operator/attendants", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), ve)

	body := rec.Body.String()
	if strings.Contains(body, "AttendantService") || strings.Contains(body, "phoneNo") {
		t.Errorf("response exposes internals: %s", body)
	}
	if !strings.Contains(body, "highlighted fields") {
		t.Errorf("response should point at the form, got: %s", body)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestErrorResponse_ValidationJSONCarriesFields(t *testing.T) {
	errs := domain.AttendantValidator{}.All(domain.AttendantInput{Name: "Al"})
	ve := domain.NewValidationError("AttendantService.Create", errs)

	req := httptest.NewRequest("POST", "/api/attendants", nil)
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), ve)

	var resp errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != domain.EINVALID {
		t.Errorf("expected code %q, got %q", domain.EINVALID, resp.Error.Code)
	}
	if resp.Error.Fields["name"] != "Name must be at least 3 characters long" {
		t.Errorf("unexpected name message: %q", resp.Error.Fields["name"])
	}
	if resp.Error.Fields["phoneNo"] != "Phone number must be 10 digits" {
		t.Errorf("unexpected phoneNo message: %q", resp.Error.Fields["phoneNo"])
	}
}

func TestErrorResponse_HTMXGetsText(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/analytics", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), domain.Invalid("op", "Unknown field."))

	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		t.Errorf("htmx request got JSON: %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Unknown field.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestErrorResponse_InternalErrorHidesDetails(t *testing.T) {
	backendErr := errors.New("dial tcp 10.0.0.12:8081: connect: connection refused")
	internalErr := domain.Internal(backendErr, "backend.ListParkings", "failed to decode backend response")

	req := httptest.NewRequest("GET", "/api/analytics", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), internalErr)

	body := rec.Body.String()
	if strings.Contains(body, "10.0.0.12") {
		t.Errorf("JSON response exposes address: %s", body)
	}
	if strings.Contains(body, "backend.ListParkings") {
		t.Errorf("JSON response exposes internal operation: %s", body)
	}
	if !strings.Contains(body, "internal error") {
		t.Errorf("JSON response should contain generic error, got: %s", body)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestErrorResponse_UnwrappedErrorReturnsGeneric(t *testing.T) {
	rawErr := errors.New("json: cannot unmarshal string into Go value")

	req := httptest.NewRequest("GET", "/analytics", nil)
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), rawErr)

	body := rec.Body.String()
	if strings.Contains(body, "unmarshal") {
		t.Errorf("response exposes raw error: %s", body)
	}
	if !strings.Contains(body, "internal error") {
		t.Errorf("response should contain generic message, got: %s", body)
	}
}

func TestErrorResponse_NotFoundOnAPIPath(t *testing.T) {
	err := domain.NotFound("analytics.Select", "subject", "Nobody")

	req := httptest.NewRequest("GET", "/api/analytics?subject=Nobody", nil)
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, discardLogger(), err)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type on /api/ path, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `subject \"Nobody\" not found`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		domain.EINVALID:      http.StatusBadRequest,
		domain.EUNAUTHORIZED: http.StatusUnauthorized,
		domain.EFORBIDDEN:    http.StatusForbidden,
		domain.ENOTFOUND:     http.StatusNotFound,
		domain.ECONFLICT:     http.StatusConflict,
		domain.ERATELIMIT:    http.StatusTooManyRequests,
		domain.EUNAVAILABLE:  http.StatusBadGateway,
		domain.EINTERNAL:     http.StatusInternalServerError,
		"something-else":     http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := ErrorCodeToHTTPStatus(code); got != want {
			t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
