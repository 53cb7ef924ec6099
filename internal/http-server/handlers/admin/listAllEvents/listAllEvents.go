package listAllEvents

import (
	"context"
	"log/slog"
	"net/http"

	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"

	"github.com/go-chi/render"
)

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AllEventsLister
type AllEventsLister interface {
	ListAllEvents(ctx context.Context) ([]models.Event, error)
}

// New is the administrative view: every event regardless of status.
func New(log *slog.Logger, lister AllEventsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.listAllEvents.New"

		log = log.With(slog.String("op", op))

		events, err := lister.ListAllEvents(r.Context())
		if err != nil {
			log.Error("failed to get events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get events"))
			return
		}

		log.Info("events retrieved", slog.Int("count", len(events)))

		render.JSON(w, r, EventsResponse{
			Response: response.OK(),
			Events:   events,
		})
	}
}
