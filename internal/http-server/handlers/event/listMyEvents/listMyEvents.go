package listMyEvents

import (
	"context"
	"log/slog"
	"net/http"

	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"

	"github.com/go-chi/render"
)

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=OrganizerEventsLister
type OrganizerEventsLister interface {
	ListEventsByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error)
}

func New(log *slog.Logger, lister OrganizerEventsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.listMyEvents.New"

		log = log.With(slog.String("op", op))

		organizerID, ok := auth.UserID(r.Context())
		if !ok {
			log.Error("no authenticated user in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Fail(response.CodeUnauthorized, "authentication required"))
			return
		}

		events, err := lister.ListEventsByOrganizer(r.Context(), organizerID)
		if err != nil {
			log.Error("failed to get events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get events"))
			return
		}

		log.Info("organizer events retrieved", slog.Int64("organizer_id", organizerID), slog.Int("count", len(events)))

		render.JSON(w, r, EventsResponse{
			Response: response.OK(),
			Events:   events,
		})
	}
}
