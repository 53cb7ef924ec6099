package deleteEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type DeleteResponse struct {
	response.Response
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventDeleter
type EventDeleter interface {
	DeleteEvent(ctx context.Context, id, actorID int64, admin bool) error
}

func New(log *slog.Logger, deleter EventDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.deleteEvent.New"

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

		err = deleter.DeleteEvent(r.Context(), eventID, actorID, role == models.RoleAdmin)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Fail(response.CodeNotFound, "event not found"))
			case errors.Is(err, storage.ErrNotOwner):
				log.Warn("delete denied: not the owner", slog.Int64("actor_id", actorID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Fail(response.CodeForbidden, "you can only delete your own events"))
			case errors.Is(err, storage.ErrEventHasBookings):
				log.Warn("delete refused: event has active bookings")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeEventHasBookings, "event still has active bookings"))
			default:
				log.Error("failed to delete event", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to delete event"))
			}
			return
		}

		log.Info("event deleted")

		render.JSON(w, r, DeleteResponse{Response: response.OK()})
	}
}
