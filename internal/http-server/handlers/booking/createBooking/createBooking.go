package createBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"seatwise/internal/http-server/middleware/auth"
	"seatwise/internal/lib/api/response"
	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type BookingRequest struct {
	EventID int64 `json:"event_id" validate:"required"`
	Seats   int   `json:"seats" validate:"omitempty,gte=1"`
}

type BookingResponse struct {
	response.Response
	Booking *models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SeatBooker
type SeatBooker interface {
	BookSeats(ctx context.Context, userID, eventID int64, seats int) (*models.Booking, error)
}

func New(log *slog.Logger, booker SeatBooker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log = log.With(slog.String("op", op))

		userID, ok := auth.UserID(r.Context())
		if !ok {
			log.Error("no authenticated user in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Fail(response.CodeUnauthorized, "authentication required"))
			return
		}

		var req BookingRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		if req.Seats == 0 {
			req.Seats = 1
		}

		log = log.With(slog.Int64("event_id", req.EventID), slog.Int("seats", req.Seats))

		booking, err := booker.BookSeats(r.Context(), userID, req.EventID, req.Seats)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				log.Info("event not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Fail(response.CodeNotFound, "event not found"))
			case errors.Is(err, storage.ErrEventNotApproved):
				log.Warn("booking refused: event not approved")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeEventNotApproved, "event is not approved for booking"))
			case errors.Is(err, storage.ErrEventFinished):
				log.Warn("booking refused: event date has passed")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeEventFinished, "event date has already passed"))
			case errors.Is(err, storage.ErrInsufficientSeats):
				log.Warn("booking refused: not enough seats")
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Fail(response.CodeInsufficientSeats, "not enough seats available"))
			default:
				log.Error("failed to book seats", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to book seats"))
			}
			return
		}

		log.Info("seats booked", slog.String("ticket_id", booking.TicketID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, BookingResponse{
			Response: response.OK(),
			Booking:  booking,
		})
	}
}
