package login

import (
	"context"
	"log/slog"
	"net/http"

	"dinopark/internal/apperr"
	sl "dinopark/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
)

type LoginBeginner interface {
	BeginLogin(ctx context.Context) (string, error)
}

// New redirects the browser to the provider authorization URL with a
// freshly issued state.
func New(log *slog.Logger, flow LoginBeginner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		authURL, err := flow.BeginLogin(r.Context())
		if err != nil {
			log.Error("failed to begin login", sl.Err(err))

			apperr.Render(w, r, log, err)

			return
		}

		log.Info("login initiated")

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}
