package dinosaurs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"dinopark/internal/apperr"
	resp "dinopark/internal/lib/api/response"
	sl "dinopark/internal/lib/logger"
	"dinopark/internal/middleware/sessionauth"
	"dinopark/internal/models"
	"dinopark/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Repository interface {
	Dinosaurs(ctx context.Context) ([]models.Dinosaur, error)
	Dinosaur(ctx context.Context, id uuid.UUID) (models.Dinosaur, error)
	SaveDinosaur(ctx context.Context, d models.Dinosaur) error
	UpdateDinosaur(ctx context.Context, d models.Dinosaur) error
	DeleteDinosaur(ctx context.Context, id uuid.UUID) error
}

type Request struct {
	Name   string `json:"name" validate:"required"`
	Weight int    `json:"weight" validate:"required,gt=0"`
	Diet   string `json:"diet" validate:"required"`
}

func List(log *slog.Logger, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dinosaurs.List"

		log := requestLog(log, op, r)

		list, err := repo.Dinosaurs(r.Context())
		if err != nil {
			apperr.Render(w, r, log, apperr.Database("failed to list dinosaurs", err))

			return
		}

		if list == nil {
			list = []models.Dinosaur{}
		}

		render.JSON(w, r, list)
	}
}

func Get(log *slog.Logger, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dinosaurs.Get"

		log := requestLog(log, op, r)

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			apperr.Render(w, r, log, apperr.UUID(err))

			return
		}

		d, err := repo.Dinosaur(r.Context(), id)
		if err != nil {
			apperr.Render(w, r, log, lookupError(err))

			return
		}

		render.JSON(w, r, d)
	}
}

func Create(log *slog.Logger, validate *validator.Validate, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dinosaurs.Create"

		log := requestLog(log, op, r)

		sess, ok := sessionauth.FromContext(r.Context())
		if !ok {
			apperr.Render(w, r, log, apperr.Unauthorized("unauthorized"))

			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		owner := sess.Subject
		d := models.Dinosaur{
			ID:     uuid.New(),
			Name:   req.Name,
			Weight: req.Weight,
			Diet:   req.Diet,
			UserID: &owner,
		}

		if err := repo.SaveDinosaur(r.Context(), d); err != nil {
			apperr.Render(w, r, log, apperr.Database("failed to save dinosaur", err))

			return
		}

		log.Info("dinosaur created", slog.String("id", d.ID.String()))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, d)
	}
}

func Update(log *slog.Logger, validate *validator.Validate, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dinosaurs.Update"

		log := requestLog(log, op, r)

		d, ok := ownedDinosaur(w, r, log, repo)
		if !ok {
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		d.Name = req.Name
		d.Weight = req.Weight
		d.Diet = req.Diet

		if err := repo.UpdateDinosaur(r.Context(), d); err != nil {
			apperr.Render(w, r, log, lookupError(err))

			return
		}

		render.JSON(w, r, d)
	}
}

func Delete(log *slog.Logger, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dinosaurs.Delete"

		log := requestLog(log, op, r)

		d, ok := ownedDinosaur(w, r, log, repo)
		if !ok {
			return
		}

		if err := repo.DeleteDinosaur(r.Context(), d.ID); err != nil {
			apperr.Render(w, r, log, lookupError(err))

			return
		}

		log.Info("dinosaur deleted", slog.String("id", d.ID.String()))

		render.NoContent(w, r)
	}
}

// ownedDinosaur loads the record from the path id and enforces that the
// requesting session owns it. Unowned records reject mutation as well.
func ownedDinosaur(w http.ResponseWriter, r *http.Request, log *slog.Logger, repo Repository) (models.Dinosaur, bool) {
	sess, ok := sessionauth.FromContext(r.Context())
	if !ok {
		apperr.Render(w, r, log, apperr.Unauthorized("unauthorized"))

		return models.Dinosaur{}, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Render(w, r, log, apperr.UUID(err))

		return models.Dinosaur{}, false
	}

	d, err := repo.Dinosaur(r.Context(), id)
	if err != nil {
		apperr.Render(w, r, log, lookupError(err))

		return models.Dinosaur{}, false
	}

	if !d.OwnedBy(sess.Subject) {
		log.Warn("ownership check failed",
			slog.String("id", id.String()),
			slog.String("subject", sess.Subject),
		)

		apperr.Render(w, r, log, apperr.Unauthorized("unauthorized"))

		return models.Dinosaur{}, false
	}

	return d, true
}

func lookupError(err error) error {
	if errors.Is(err, storage.ErrDinosaurNotFound) {
		return apperr.NotFound("dinosaur not found")
	}

	return apperr.Database("storage failure", err)
}

func requestLog(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
