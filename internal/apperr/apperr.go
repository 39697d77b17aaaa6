// Package apperr defines the application error taxonomy: every failure the
// backend reports to a client is a single tagged Error value with a stable
// (kind, HTTP status, error code) triple, independent of where it originated.
package apperr

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind is the discriminant of the error taxonomy.
type Kind int

const (
	KindInternal        Kind = iota // catch-all, must stay the zero value
	KindNotFound                    // lookup by id/username failed
	KindUnauthorized                // bad credentials, missing/invalid token
	KindForbidden                   // ownership or role check failed
	KindBusinessRule                // business rule violated (duplicate username, ...)
	KindInputValidation             // structural/field validation failed
	KindConflict                    // storage constraint violation
	KindMethodNotAllowed
	KindUnsupportedMedia
	KindRouteNotFound
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBusinessRule:
		return "business_rule"
	case KindInputValidation:
		return "input_validation"
	case KindConflict:
		return "conflict"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindUnsupportedMedia:
		return "unsupported_media"
	case KindRouteNotFound:
		return "route_not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HTTPStatus maps a kind to its HTTP status code. The mapping is total:
// unknown kinds fall back to 500.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound, KindRouteNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindBusinessRule, KindInputValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes a single rejected field of a validation failure,
// in the order the fields were encountered.
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejectedValue"`
	Message       string `json:"message"`
}

// Error is the one error type the application raises for expected failures.
// The client-visible parts are Kind, Code, Message, Details and Fields; the
// wrapped cause stays server-side.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details string
	Fields  []FieldError

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the server-side cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails returns a copy of the error with the details field set.
func (e *Error) WithDetails(details string) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// NotFound reports a failed lookup, e.g. NotFound("Song", "id", 42).
// The code embeds the resource name: RESOURCE_NOT_FOUND_SONG.
func NotFound(resource, field string, value any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "RESOURCE_NOT_FOUND_" + strings.ToUpper(resource),
		Message: fmt.Sprintf("%s not found with %s: '%v'", resource, field, value),
	}
}

// NotFoundMsg reports a failed lookup with a free-form message.
func NotFoundMsg(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "RESOURCE_NOT_FOUND", Message: message}
}

// Unauthorized reports an authentication failure.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: "AUTHENTICATION_FAILED", Message: message}
}

// Forbidden reports an authorization failure.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "UNAUTHORIZED_ACCESS", Message: message}
}

// AccessDenied reports a role-based authorization failure.
func AccessDenied(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "ACCESS_DENIED", Message: message}
}

// BusinessRule reports a business rule violation. The specific code suffix is
// appended to the BUSINESS_VALIDATION prefix, e.g. DUPLICATE_USERNAME.
func BusinessRule(message, specific string) *Error {
	code := "BUSINESS_VALIDATION"
	if specific != "" {
		code += "_" + specific
	}
	return &Error{Kind: KindBusinessRule, Code: code, Message: message}
}

// Validation reports a field validation failure with one entry per offending
// field, ordered as encountered.
func Validation(fields []FieldError) *Error {
	return &Error{
		Kind:    KindInputValidation,
		Code:    "VALIDATION_FAILED",
		Message: "Input validation failed",
		Details: "Validation failed for one or more fields",
		Fields:  fields,
	}
}

// MissingParameter reports a missing required request parameter.
func MissingParameter(name string) *Error {
	return &Error{
		Kind:    KindInputValidation,
		Code:    "MISSING_PARAMETER",
		Message: fmt.Sprintf("Required parameter '%s' is missing", name),
	}
}

// TypeMismatch reports a parameter that failed type conversion.
func TypeMismatch(name, wantType string) *Error {
	return &Error{
		Kind:    KindInputValidation,
		Code:    "TYPE_MISMATCH",
		Message: fmt.Sprintf("Parameter '%s' should be of type %s", name, wantType),
	}
}

// MalformedJSON reports an undecodable request body.
func MalformedJSON(cause error) *Error {
	return &Error{
		Kind:    KindInputValidation,
		Code:    "MALFORMED_JSON",
		Message: "Request body is malformed or invalid",
		Details: "Please check your JSON syntax and data types",
		cause:   cause,
	}
}

// Conflict reports a storage constraint violation surfaced as 409.
func Conflict(message string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    "DATA_INTEGRITY_VIOLATION",
		Message: message,
		Details: "Please check your data and try again",
		cause:   cause,
	}
}

// MethodNotAllowed reports an HTTP method the endpoint does not support.
func MethodNotAllowed(method string) *Error {
	return &Error{
		Kind:    KindMethodNotAllowed,
		Code:    "METHOD_NOT_ALLOWED",
		Message: fmt.Sprintf("HTTP method '%s' is not supported for this endpoint", method),
	}
}

// UnsupportedMedia reports an unsupported request content type.
func UnsupportedMedia(contentType string) *Error {
	return &Error{
		Kind:    KindUnsupportedMedia,
		Code:    "UNSUPPORTED_MEDIA_TYPE",
		Message: "Content-Type is not supported",
		Details: fmt.Sprintf("Received: %s, supported: application/json", contentType),
	}
}

// RouteNotFound reports a request for which no handler exists.
func RouteNotFound(method, path string) *Error {
	return &Error{
		Kind:    KindRouteNotFound,
		Code:    "ENDPOINT_NOT_FOUND",
		Message: "The requested endpoint does not exist",
		Details: fmt.Sprintf("No handler found for %s %s", method, path),
	}
}

// Internal wraps an unexpected failure. The cause is kept for server-side
// logging; the client-visible message never contains it.
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "An unexpected error occurred",
		Details: "Please contact support if the problem persists",
		cause:   cause,
	}
}

// Internalf wraps an unexpected failure created in place.
func Internalf(format string, args ...any) *Error {
	return Internal(errors.Newf(format, args...))
}

// From normalizes any error to an *Error. Typed application errors pass
// through unchanged; everything else becomes the Internal kind, so the
// mapping to a response never fails.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
