package listAllBookings

import (
	"context"
	"log/slog"
	"net/http"

	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"

	"github.com/go-chi/render"
)

type BookingsResponse struct {
	response.Response
	Count    int                  `json:"count"`
	Bookings []models.UserBooking `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AllBookingsLister
type AllBookingsLister interface {
	ListAllBookings(ctx context.Context) ([]models.UserBooking, error)
}

func New(log *slog.Logger, lister AllBookingsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.listAllBookings.New"

		log = log.With(slog.String("op", op))

		bookings, err := lister.ListAllBookings(r.Context())
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get bookings"))
			return
		}

		log.Info("bookings retrieved", slog.Int("count", len(bookings)))

		render.JSON(w, r, BookingsResponse{
			Response: response.OK(),
			Count:    len(bookings),
			Bookings: bookings,
		})
	}
}
