// Package booking composes the seat inventory, the ticket issuer and the
// booking ledger into the two workflows the API exposes: booking seats and
// cancelling a booking. Each workflow runs as one transaction, so a failure
// in any step leaves the seat counter exactly as it was.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"seatwise/internal/lib/logger/sl"
	"seatwise/internal/models"
	"seatwise/internal/storage"
)

var ErrInvalidSeatCount = errors.New("seat count must be at least 1")

type SeatInventory interface {
	ReserveSeats(ctx context.Context, eventID int64, seats int) error
	ReleaseSeats(ctx context.Context, eventID int64, seats int) error
}

type Ledger interface {
	InsertBooking(ctx context.Context, userID, eventID int64, seats int, ticketID string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, bookingID, userID int64) (eventID int64, seats int, err error)
}

type TicketIssuer interface {
	Issue() string
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// How many fresh tickets to try before giving up on a collision streak.
const maxTicketAttempts = 3

type Service struct {
	log       *slog.Logger
	tx        TxRunner
	inventory SeatInventory
	ledger    Ledger
	tickets   TicketIssuer
}

func New(log *slog.Logger, tx TxRunner, inventory SeatInventory, ledger Ledger, tickets TicketIssuer) *Service {
	return &Service{
		log:       log,
		tx:        tx,
		inventory: inventory,
		ledger:    ledger,
		tickets:   tickets,
	}
}

// BookSeats reserves seats on an event and records the booking under a fresh
// ticket id. Reserve and record share one transaction: if recording fails,
// the rollback returns the seats, so no seat is ever stranded without a
// surviving booking.
func (s *Service) BookSeats(ctx context.Context, userID, eventID int64, seats int) (*models.Booking, error) {
	const op = "booking.BookSeats"

	if seats < 1 {
		return nil, ErrInvalidSeatCount
	}

	var booked *models.Booking

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.inventory.ReserveSeats(ctx, eventID, seats); err != nil {
			return err
		}

		for attempt := 1; attempt <= maxTicketAttempts; attempt++ {
			ticketID := s.tickets.Issue()

			b, err := s.ledger.InsertBooking(ctx, userID, eventID, seats, ticketID)
			if errors.Is(err, storage.ErrDuplicateTicket) {
				s.log.Warn("ticket id collision, reissuing",
					slog.String("ticket_id", ticketID),
					slog.Int("attempt", attempt),
				)
				continue
			}
			if err != nil {
				return err
			}

			booked = b
			return nil
		}

		return storage.ErrDuplicateTicket
	})
	if err != nil {
		s.alarmOnConsistency(err)
		if isDomainErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return booked, nil
}

// CancelBooking removes the caller's booking and returns its seats to the
// event, as one transaction. Cancelling an already cancelled booking fails
// with ErrBookingNotFound and releases nothing.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	const op = "booking.CancelBooking"

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		eventID, seats, err := s.ledger.DeleteBooking(ctx, bookingID, userID)
		if err != nil {
			return err
		}

		if err = s.inventory.ReleaseSeats(ctx, eventID, seats); err != nil {
			if errors.Is(err, storage.ErrReleaseOverflow) {
				s.log.Error("over-release rejected: ledger and seat counter disagree",
					slog.Int64("booking_id", bookingID),
					slog.Int64("event_id", eventID),
					slog.Int("seats", seats),
				)
			}
			return err
		}

		return nil
	})
	if err != nil {
		s.alarmOnConsistency(err)
		if isDomainErr(err) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// alarmOnConsistency logs the one failure mode that is not self-healing:
// a rollback that did not go through, leaving the counter and the ledger
// possibly out of step. Needs operator attention.
func (s *Service) alarmOnConsistency(err error) {
	if errors.Is(err, storage.ErrConsistency) {
		s.log.Error("BOOKING CONSISTENCY AT RISK: rollback failed, reconcile seat inventory against the ledger",
			sl.Err(err),
		)
	}
}

// isDomainErr reports whether err is one of the kinds callers match on with
// errors.Is; those propagate unwrapped.
func isDomainErr(err error) bool {
	for _, kind := range []error{
		storage.ErrEventNotFound,
		storage.ErrBookingNotFound,
		storage.ErrEventNotApproved,
		storage.ErrEventFinished,
		storage.ErrInsufficientSeats,
		storage.ErrNotOwner,
		storage.ErrDuplicateTicket,
		storage.ErrReleaseOverflow,
		storage.ErrConsistency,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
