package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/requestid"
)

// statusByCode maps domain error codes to HTTP statuses. Backend outages
// surface as 502 since the console itself is still healthy.
var statusByCode = map[string]int{
	domain.EINVALID:      http.StatusBadRequest,
	domain.EUNAUTHORIZED: http.StatusUnauthorized,
	domain.EFORBIDDEN:    http.StatusForbidden,
	domain.ENOTFOUND:     http.StatusNotFound,
	domain.ECONFLICT:     http.StatusConflict,
	domain.ERATELIMIT:    http.StatusTooManyRequests,
	domain.EINTERNAL:     http.StatusInternalServerError,
	domain.EUNAVAILABLE:  http.StatusBadGateway,
}

// ErrorCodeToHTTPStatus maps a domain error code to an HTTP status.
// Unknown codes are treated as internal errors.
func ErrorCodeToHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorEnvelope is the JSON shape of every error the console returns.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse writes err as JSON for API callers and as plain text
// otherwise. Validation errors carry their field messages in the JSON form;
// the text form never echoes field names or operation names.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	detail := errorDetail{
		Code:    domain.ErrorCode(err),
		Message: domain.ErrorMessage(err),
	}
	text := detail.Message

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		detail.Code = domain.EINVALID
		detail.Message = "Validation failed"
		detail.Fields = ve.Fields
		text = "Please correct the highlighted fields and try again."
	}

	status := ErrorCodeToHTTPStatus(detail.Code)
	logError(logger, r, err, detail.Code, status)

	if wantsJSON(r) {
		writeJSON(w, status, errorEnvelope{Error: detail})
		return
	}
	http.Error(w, text, status)
}

// UnauthorizedResponse answers a request that needs an operator session.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	ErrorResponse(w, r, logger, domain.Unauthorized("", "Sign in to continue"))
}

// InternalErrorResponse hides err behind a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ErrorResponse(w, r, logger, domain.Internal(err, "", "An unexpected error occurred"))
}

func logError(logger *slog.Logger, r *http.Request, err error, code string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}
	if id := requestid.FromContext(r.Context()); id != "" {
		attrs = append(attrs, "request_id", id)
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
		return
	}
	logger.InfoContext(r.Context(), "request rejected", attrs...)
}

// wantsJSON reports whether the caller is the JSON API rather than a page
// or an htmx swap.
func wantsJSON(r *http.Request) bool {
	if isHTMX(r) {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
