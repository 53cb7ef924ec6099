package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"seatwise/internal/models"
	"seatwise/internal/storage"
)

// ReserveSeats decrements seats_available by seats in a single conditional
// UPDATE. The availability check and the decrement are one statement, so two
// reservations can never both read the same free count: the row lock
// serializes them and the loser re-evaluates the WHERE clause. Different
// events live on different rows and do not contend.
//
// When the update matches nothing, a follow-up read classifies the refusal.
func (s *Storage) ReserveSeats(ctx context.Context, eventID int64, seats int) error {
	query := `
		UPDATE events
		SET seats_available = seats_available - $2, updated_at = now()
		WHERE id = $1
		  AND status = $3
		  AND date > now()
		  AND seats_available >= $2`

	res, err := s.q(ctx).ExecContext(ctx, query, eventID, seats, models.StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	if affected == 1 {
		return nil
	}

	return s.classifyReserveFailure(ctx, eventID, seats)
}

func (s *Storage) classifyReserveFailure(ctx context.Context, eventID int64, seats int) error {
	var (
		status    models.EventStatus
		date      time.Time
		available int
	)

	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT status, date, seats_available FROM events WHERE id = $1`, eventID,
	).Scan(&status, &date, &available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrEventNotFound
		}
		return fmt.Errorf("failed to inspect event: %w", err)
	}

	switch {
	case status != models.StatusApproved:
		return storage.ErrEventNotApproved
	case !date.After(time.Now()):
		return storage.ErrEventFinished
	case available < seats:
		return storage.ErrInsufficientSeats
	default:
		// The event became bookable between the two statements. Treat as
		// a lost race; the caller surfaces it as insufficient seats.
		return storage.ErrInsufficientSeats
	}
}

// ReleaseSeats returns seats to the pool, refusing to push availability past
// total_seats. An over-release means the ledger and the counter disagree; it
// is rejected so the caller can raise the alarm, never silently clamped.
func (s *Storage) ReleaseSeats(ctx context.Context, eventID int64, seats int) error {
	query := `
		UPDATE events
		SET seats_available = seats_available + $2, updated_at = now()
		WHERE id = $1 AND seats_available + $2 <= total_seats`

	res, err := s.q(ctx).ExecContext(ctx, query, eventID, seats)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var exists bool
	if err = s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to inspect event: %w", err)
	}
	if !exists {
		return storage.ErrEventNotFound
	}

	return storage.ErrReleaseOverflow
}
