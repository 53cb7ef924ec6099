package updateEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type UpdateRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description *string    `json:"description,omitempty" validate:"omitempty,min=10"`
	Date        *time.Time `json:"date,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,min=1"`
	TotalSeats  *int       `json:"total_seats,omitempty" validate:"omitempty,gte=1"`
}

type UpdateResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	UpdateEvent(ctx context.Context, id, actorID int64, admin bool, upd storage.EventUpdate) (*models.Event, error)
}

func New(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

		log = log.With(slog.String("op", op))

		actorID, ok := auth.UserID(r.Context())
		if !ok {
			log.Error("no authenticated user in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Fail(response.CodeUnauthorized, "authentication required"))
			return
		}
		role, _ := auth.Role(r.Context())

		eventID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid event id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id format"))
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		var req UpdateRequest

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

		if req.Date != nil && !req.Date.After(time.Now()) {
			log.Error("event date is not in the future", slog.Time("date", *req.Date))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Fail(response.CodeValidation, "event date must be in the future"))
			return
		}

		event, err := updater.UpdateEvent(r.Context(), eventID, actorID, role == models.RoleAdmin, storage.EventUpdate{
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Location:    req.Location,
			TotalSeats:  req.TotalSeats,
		})
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Fail(response.CodeNotFound, "event not found"))
			case errors.Is(err, storage.ErrNotOwner):
				log.Warn("update denied: not the owner", slog.Int64("actor_id", actorID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Fail(response.CodeForbidden, "you can only update your own events"))
			case errors.Is(err, storage.ErrInvalidCapacity):
				log.Warn("resize below booked seats rejected")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeInvalidCapacity, "cannot reduce total seats below already booked seats"))
			default:
				log.Error("failed to update event", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to update event"))
			}
			return
		}

		log.Info("event updated")

		render.JSON(w, r, UpdateResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
