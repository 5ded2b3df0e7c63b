package index

import (
	"context"
	"log/slog"
	"net/http"

	sl "dinopark/internal/lib/logger"
	"dinopark/internal/middleware/sessionauth"
	"dinopark/internal/models"
	"dinopark/internal/templates"

	"github.com/go-chi/chi/middleware"
)

type DinosaurLister interface {
	Dinosaurs(ctx context.Context) ([]models.Dinosaur, error)
}

type pageData struct {
	LoggedIn  bool
	Subject   string
	Dinosaurs []models.Dinosaur
}

func New(log *slog.Logger, tmpl *templates.Engine, dinos DinosaurLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.index.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		data := pageData{}

		if sess, ok := sessionauth.FromContext(r.Context()); ok {
			data.LoggedIn = true
			data.Subject = sess.Subject
		}

		list, err := dinos.Dinosaurs(r.Context())
		if err != nil {
			log.Error("failed to list dinosaurs", sl.Err(err))

			http.Error(w, "Internal error", http.StatusInternalServerError)

			return
		}
		data.Dinosaurs = list

		page, err := tmpl.Render("index.html", data)
		if err != nil {
			log.Error("failed to render index", sl.Err(err))

			http.Error(w, "Internal error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}
}
