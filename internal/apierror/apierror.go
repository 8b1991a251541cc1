// Package apierror provides the error taxonomy shared by all operations and
// the standardized response envelope returned to clients. Every remote-call
// failure is classified into one of the kinds below at the operation
// boundary; nothing propagates to the top of the application unclassified.
package apierror

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Kind is the machine-readable error classification.
type Kind string

const (
	KindValidation       Kind = "validation"        // bad input, no network attempted
	KindUploadTimeout    Kind = "upload_timeout"    // photo upload exceeded its bound
	KindUpdateTimeout    Kind = "update_timeout"    // store update exceeded its bound
	KindPermissionDenied Kind = "permission_denied" // store rejected by access rules
	KindUnavailable      Kind = "unavailable"       // transient infra failure
	KindNotFound         Kind = "not_found"         // referenced entity does not exist
	KindUnknown          Kind = "unknown"           // catch-all, message passed through
)

// Error carries a kind plus a human message. Fields is populated only for
// validation errors (field name → problem).
type Error struct {
	Kind   Kind
	Detail string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Validation builds a field-level validation error. No network call may have
// been attempted before returning one of these.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: "Error de validacion", Fields: fields}
}

// Timeout wraps a deadline error with the operation-specific timeout kind.
func Timeout(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Classify maps an arbitrary store/network error into the taxonomy.
// timeoutKind is used when the error is a context deadline, since only the
// call site knows whether the bound belonged to an upload or an update.
func Classify(err error, timeoutKind Kind) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(timeoutKind, "La operación tardó demasiado", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "insufficient privilege"),
		strings.Contains(msg, "sqlstate 42501"):
		return &Error{Kind: KindPermissionDenied, Detail: "Permiso denegado por el almacén de datos", Err: err}
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "bad connection"),
		strings.Contains(msg, "unavailable"):
		return &Error{Kind: KindUnavailable, Detail: "Servicio no disponible", Err: err}
	default:
		return &Error{Kind: KindUnknown, Detail: err.Error(), Err: err}
	}
}

// KindOf extracts the kind from any error, defaulting to unknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps a kind to the response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUploadTimeout, KindUpdateTimeout:
		return http.StatusGatewayTimeout
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ── Response envelope ─────────────────────────────────────────────────────────

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string            `json:"detail"`
	Kind   Kind              `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Envelope converts any error into the JSON body sent to clients.
func Envelope(err error) *APIError {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return &APIError{Detail: apiErr.Detail, Kind: apiErr.Kind, Fields: apiErr.Fields}
	}
	return &APIError{Detail: err.Error(), Kind: KindUnknown}
}
