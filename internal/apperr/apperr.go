package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	resp "dinopark/internal/lib/api/response"
	sl "dinopark/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// Kind is the closed set of failure categories the service produces.
type Kind int

const (
	KindParse Kind = iota
	KindDatabase
	KindHTTP
	KindIO
	KindTemplate
	KindUUID
	KindEnvVar
	KindSerialization
	KindNotFound
	KindUnauthorized
	KindBadRequest
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindDatabase:
		return "database"
	case KindHTTP:
		return "http"
	case KindIO:
		return "io"
	case KindTemplate:
		return "template"
	case KindUUID:
		return "uuid"
	case KindEnvVar:
		return "env_var"
	case KindSerialization:
		return "serialization"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Status is set for KindHTTP only.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest, KindParse, KindUUID, KindSerialization:
		return http.StatusBadRequest
	case KindHTTP:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Parse(msg string, err error) *Error {
	return Wrap(KindParse, msg, err)
}

func Database(msg string, err error) *Error {
	return Wrap(KindDatabase, msg, err)
}

func HTTP(status int, msg string, err error) *Error {
	return &Error{Kind: KindHTTP, Message: msg, Status: status, Err: err}
}

func Template(msg string, err error) *Error {
	return Wrap(KindTemplate, msg, err)
}

func UUID(err error) *Error {
	return Wrap(KindUUID, "invalid id", err)
}

func EnvVar(name string) *Error {
	return New(KindEnvVar, fmt.Sprintf("environment variable not found: %s", name))
}

func Serialization(msg string, err error) *Error {
	return Wrap(KindSerialization, msg, err)
}

func NotFound(msg string) *Error {
	return New(KindNotFound, msg)
}

func Unauthorized(msg string) *Error {
	return New(KindUnauthorized, msg)
}

func BadRequest(msg string) *Error {
	return New(KindBadRequest, msg)
}

// Render is the central translator from an error to a JSON response.
// Server-side kinds keep their cause in the log, never in the body.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Wrap(KindInternal, "unexpected error", err)
	}

	status := appErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("kind", appErr.Kind.String()),
			sl.Err(err),
		)

		render.Status(r, status)
		render.JSON(w, r, resp.Error("Internal error"))

		return
	}

	render.Status(r, status)
	render.JSON(w, r, resp.Error(appErr.Message))
}
