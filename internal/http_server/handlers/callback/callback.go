package callback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"dinopark/internal/apperr"
	"dinopark/internal/auth"
	sl "dinopark/internal/lib/logger"
	"dinopark/internal/middleware/sessionauth"
	"dinopark/internal/models"
	"dinopark/internal/templates"

	"github.com/go-chi/chi/middleware"
)

type LoginCompleter interface {
	CompleteLogin(ctx context.Context, state, code string) (models.Session, error)
}

// New completes the authorization-code exchange. On success it sets the
// session cookie and redirects home; any failure renders the generic
// sign-in-failed page without leaking the provider error.
func New(log *slog.Logger, flow LoginCompleter, tmpl *templates.Engine, cookieSecure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.callback.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")

		if state == "" || code == "" {
			log.Warn("callback missing state or code")

			renderFailure(w, log, tmpl, http.StatusBadRequest)

			return
		}

		sess, err := flow.CompleteLogin(r.Context(), state, code)
		if err != nil {
			log.Error("login failed", sl.Err(err))

			status := http.StatusInternalServerError

			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				status = appErr.HTTPStatus()
			}

			renderFailure(w, log, tmpl, status)

			return
		}

		sessionauth.SetCookie(w, sess.ID, auth.SessionTTL(), cookieSecure)

		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func renderFailure(w http.ResponseWriter, log *slog.Logger, tmpl *templates.Engine, status int) {
	page, err := tmpl.Render("error.html", map[string]string{
		"Message": "Sign-in failed. Please try again.",
	})
	if err != nil {
		log.Error("failed to render error page", sl.Err(err))

		http.Error(w, "Sign-in failed", status)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}
