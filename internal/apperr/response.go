package apperr

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Response is the wire shape every error funnels into. It mirrors the JSON
// error envelope of the public API.
type Response struct {
	Status           int          `json:"status"`
	ErrorCode        string       `json:"errorCode"`
	Message          string       `json:"message"`
	Details          string       `json:"details,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
	Path             string       `json:"path"`
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}

// MapToResponse converts any error to the wire error envelope for the given
// request path. The mapping is total: unclassified errors map to a 500
// response whose message never leaks the internal cause.
func MapToResponse(err error, path string) Response {
	e := From(err)
	return Response{
		Status:           e.Kind.HTTPStatus(),
		ErrorCode:        e.Code,
		Message:          e.Message,
		Details:          e.Details,
		Timestamp:        time.Now(),
		Path:             path,
		ValidationErrors: e.Fields,
	}
}

// Write logs the error with kind-appropriate severity and writes the mapped
// response to w. This is the single normalization point of the HTTP layer.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	e := From(err)
	logError(e, r)

	resp := MapToResponse(e, r.URL.Path)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp)
}

// logError applies the severity policy: expected user errors at info,
// noteworthy denials at warn, true internal failures at error with the
// full cause chain retained server-side.
func logError(e *Error, r *http.Request) {
	var evt *zerolog.Event
	switch e.Kind {
	case KindBusinessRule, KindInputValidation, KindMethodNotAllowed, KindUnsupportedMedia, KindRouteNotFound:
		evt = zlog.Info()
	case KindNotFound, KindUnauthorized, KindForbidden, KindConflict:
		evt = zlog.Warn()
	default:
		evt = zlog.Error().Err(e.cause)
	}
	evt.
		Str("kind", e.Kind.String()).
		Str("code", e.Code).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(e.Message)
}
