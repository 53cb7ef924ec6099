package setEventStatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type StatusResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=StatusSetter
type StatusSetter interface {
	SetEventStatus(ctx context.Context, id int64, status models.EventStatus) (*models.Event, error)
}

// New decides a pending event. Role enforcement (admin only) happens in the
// router middleware; the decision itself is one-shot, a second decision on
// the same event is rejected.
func New(log *slog.Logger, setter StatusSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.setEventStatus.New"

		log = log.With(slog.String("op", op))

		eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid event id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id format"))
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		var req StatusRequest

		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		event, err := setter.SetEventStatus(r.Context(), eventID, models.EventStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Fail(response.CodeNotFound, "event not found"))
			case errors.Is(err, storage.ErrStatusAlreadySet):
				log.Warn("status already decided")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeStatusAlreadySet, "event status has already been decided"))
			default:
				log.Error("failed to set event status", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to set event status"))
			}
			return
		}

		log.Info("event status set", slog.String("status", req.Status))

		render.JSON(w, r, StatusResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
