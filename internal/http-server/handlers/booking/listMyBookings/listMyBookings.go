package listMyBookings

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

type BookingsResponse struct {
	response.Response
	Count    int                  `json:"count"`
	Bookings []models.UserBooking `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingsLister
type BookingsLister interface {
	ListBookingsForUser(ctx context.Context, userID int64) ([]models.UserBooking, error)
}

func New(log *slog.Logger, lister BookingsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.listMyBookings.New"

		log = log.With(slog.String("op", op))

		userID, ok := auth.UserID(r.Context())
		if !ok {
			log.Error("no authenticated user in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Fail(response.CodeUnauthorized, "authentication required"))
			return
		}

		bookings, err := lister.ListBookingsForUser(r.Context(), userID)
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get bookings"))
			return
		}

		log.Info("bookings retrieved", slog.Int64("user_id", userID), slog.Int("count", len(bookings)))

		render.JSON(w, r, BookingsResponse{
			Response: response.OK(),
			Count:    len(bookings),
			Bookings: bookings,
		})
	}
}
