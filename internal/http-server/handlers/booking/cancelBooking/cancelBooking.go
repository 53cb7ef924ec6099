package cancelBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type CancelResponse struct {
	response.Response
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCanceler
type BookingCanceler interface {
	CancelBooking(ctx context.Context, bookingID, userID int64) error
}

func New(log *slog.Logger, canceler BookingCanceler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.cancelBooking.New"

		log = log.With(slog.String("op", op))

		userID, ok := auth.UserID(r.Context())
		if !ok {
			log.Error("no authenticated user in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Fail(response.CodeUnauthorized, "authentication required"))
			return
		}

		bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("invalid booking id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid booking id format"))
			return
		}

		log = log.With(slog.Int64("booking_id", bookingID))

		err = canceler.CancelBooking(r.Context(), bookingID, userID)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrBookingNotFound):
				log.Info("booking not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Fail(response.CodeNotFound, "booking not found"))
			case errors.Is(err, storage.ErrNotOwner):
				log.Warn("cancel denied: not the owner", slog.Int64("user_id", userID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Fail(response.CodeForbidden, "you can only cancel your own bookings"))
			case errors.Is(err, storage.ErrReleaseOverflow), errors.Is(err, storage.ErrConsistency):
				log.Error("cancellation hit an inconsistency", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Fail(response.CodeConsistency, "booking state needs operator attention"))
			default:
				log.Error("failed to cancel booking", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel booking"))
			}
			return
		}

		log.Info("booking cancelled")

		render.JSON(w, r, CancelResponse{Response: response.OK()})
	}
}
