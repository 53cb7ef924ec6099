package listEvents

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
	Count  int            `json:"count"`
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventsLister
type EventsLister interface {
	ListApprovedEvents(ctx context.Context, search string) ([]models.Event, error)
}

// New serves the public catalog: approved events only, with an optional
// ?query= search over title, description and location.
func New(log *slog.Logger, lister EventsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.listEvents.New"

		log = log.With(slog.String("op", op))

		search := r.URL.Query().Get("query")

		events, err := lister.ListApprovedEvents(r.Context(), search)
		if err != nil {
			log.Error("failed to get events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get events"))
			return
		}

		log.Info("events retrieved", slog.Int("count", len(events)), slog.String("query", search))

		render.JSON(w, r, EventsResponse{
			Response: response.OK(),
			Count:    len(events),
			Events:   events,
		})
	}
}
