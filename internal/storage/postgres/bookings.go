package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"seatwise/internal/models"
	"seatwise/internal/storage"
)

// InsertBooking persists a booking. A ticket id collision is reported as
// ErrDuplicateTicket via ON CONFLICT DO NOTHING, which keeps the enclosing
// transaction usable so the caller can retry with a fresh ticket.
func (s *Storage) InsertBooking(ctx context.Context, userID, eventID int64, seats int, ticketID string) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (ticket_id, event_id, user_id, seats)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticket_id) DO NOTHING
		RETURNING id, created_at`

	booking := models.Booking{
		TicketID: ticketID,
		EventID:  eventID,
		UserID:   userID,
		Seats:    seats,
	}

	err := s.q(ctx).QueryRowContext(ctx, query, ticketID, eventID, userID, seats).
		Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDuplicateTicket
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	return &booking, nil
}

func (s *Storage) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `
		SELECT id, ticket_id, event_id, user_id, seats, created_at
		FROM bookings
		WHERE id = $1`

	var booking models.Booking
	err := s.q(ctx).QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.TicketID,
		&booking.EventID,
		&booking.UserID,
		&booking.Seats,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// DeleteBooking removes a booking owned by userID and reports which event
// and how many seats it held, so the caller can release them in the same
// transaction. The row lock keeps a concurrent cancel of the same booking
// from releasing seats twice.
func (s *Storage) DeleteBooking(ctx context.Context, bookingID, userID int64) (eventID int64, seats int, err error) {
	var ownerID int64

	err = s.q(ctx).QueryRowContext(ctx,
		`SELECT user_id, event_id, seats FROM bookings WHERE id = $1 FOR UPDATE`, bookingID,
	).Scan(&ownerID, &eventID, &seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, storage.ErrBookingNotFound
		}
		return 0, 0, fmt.Errorf("failed to lock booking: %w", err)
	}

	if ownerID != userID {
		return 0, 0, storage.ErrNotOwner
	}

	if _, err = s.q(ctx).ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID); err != nil {
		return 0, 0, fmt.Errorf("failed to delete booking: %w", err)
	}

	return eventID, seats, nil
}

const userBookingColumns = `
	b.id, b.ticket_id, b.event_id, b.user_id, b.seats, b.created_at,
	e.title, e.date, e.location`

func (s *Storage) ListBookingsForUser(ctx context.Context, userID int64) ([]models.UserBooking, error) {
	query := `
		SELECT ` + userBookingColumns + `
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`

	return s.listBookings(ctx, query, userID)
}

func (s *Storage) ListAllBookings(ctx context.Context) ([]models.UserBooking, error) {
	query := `
		SELECT ` + userBookingColumns + `
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		ORDER BY b.created_at DESC`

	return s.listBookings(ctx, query)
}

func (s *Storage) listBookings(ctx context.Context, query string, args ...any) ([]models.UserBooking, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.UserBooking
	for rows.Next() {
		var b models.UserBooking
		err = rows.Scan(
			&b.ID,
			&b.TicketID,
			&b.EventID,
			&b.UserID,
			&b.Seats,
			&b.CreatedAt,
			&b.EventTitle,
			&b.EventDate,
			&b.EventLocation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}
