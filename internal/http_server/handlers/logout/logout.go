package logout

import (
	"context"
	"log/slog"
	"net/http"

	sl "dinopark/internal/lib/logger"
	"dinopark/internal/middleware/sessionauth"

	"github.com/go-chi/chi/middleware"
)

type SessionRevoker interface {
	Logout(ctx context.Context, sid string) error
}

// New revokes the current session and clears the cookie. Calling it
// without a session still clears the cookie and redirects, so repeated
// logouts behave identically.
func New(log *slog.Logger, flow SessionRevoker, cookieSecure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.logout.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if cookie, err := r.Cookie(sessionauth.CookieName); err == nil && cookie.Value != "" {
			if err := flow.Logout(r.Context(), cookie.Value); err != nil {
				log.Error("failed to revoke session", sl.Err(err))
			} else {
				log.Info("user logged out")
			}
		}

		sessionauth.ClearCookie(w, cookieSecure)

		http.Redirect(w, r, "/", http.StatusFound)
	}
}
