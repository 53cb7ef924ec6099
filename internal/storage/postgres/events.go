package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"seatwise/internal/models"
	"seatwise/internal/storage"
)

const eventColumns = `id, title, description, date, location, total_seats, seats_available, status, organizer_id, created_at, updated_at`

func scanEvent(row *sql.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.TotalSeats,
		&event.SeatsAvailable,
		&event.Status,
		&event.OrganizerID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Storage) CreateEvent(ctx context.Context, params storage.NewEvent) (*models.Event, error) {
	query := `
		INSERT INTO events (title, description, date, location, total_seats, seats_available, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7)
		RETURNING ` + eventColumns

	event, err := scanEvent(s.q(ctx).QueryRowContext(ctx, query,
		params.Title,
		params.Description,
		params.Date,
		params.Location,
		params.TotalSeats,
		models.StatusPending,
		params.OrganizerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(s.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// ListApprovedEvents returns approved events, soonest first. A non-empty
// search term matches title, description or location case-insensitively.
func (s *Storage) ListApprovedEvents(ctx context.Context, search string) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%' OR location ILIKE '%' || $2 || '%')
		ORDER BY date ASC`

	return s.listEvents(ctx, query, models.StatusApproved, search)
}

func (s *Storage) ListEventsByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC`

	return s.listEvents(ctx, query, organizerID)
}

func (s *Storage) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`

	return s.listEvents(ctx, query)
}

func (s *Storage) listEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err = rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Date,
			&event.Location,
			&event.TotalSeats,
			&event.SeatsAvailable,
			&event.Status,
			&event.OrganizerID,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// SetEventStatus decides a pending event. The WHERE clause is the transition
// guard: approved and rejected are final, re-deciding fails.
func (s *Storage) SetEventStatus(ctx context.Context, id int64, status models.EventStatus) (*models.Event, error) {
	query := `
		UPDATE events
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING ` + eventColumns

	event, err := scanEvent(s.q(ctx).QueryRowContext(ctx, query, id, status, models.StatusPending))
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to set event status: %w", err)
	}

	if _, err = s.GetEvent(ctx, id); err != nil {
		return nil, err
	}
	return nil, storage.ErrStatusAlreadySet
}

// UpdateEvent applies a partial update on behalf of actorID. Resizing keeps
// the booked-seat count intact: seats_available moves by the same delta as
// total_seats, and shrinking below the booked count is rejected.
func (s *Storage) UpdateEvent(ctx context.Context, id, actorID int64, admin bool, upd storage.EventUpdate) (*models.Event, error) {
	var updated *models.Event

	err := s.WithTx(ctx, func(ctx context.Context) error {
		query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

		event, err := scanEvent(s.q(ctx).QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		if !admin && event.OrganizerID != actorID {
			return storage.ErrNotOwner
		}

		if upd.Title != nil {
			event.Title = *upd.Title
		}
		if upd.Description != nil {
			event.Description = *upd.Description
		}
		if upd.Date != nil {
			event.Date = *upd.Date
		}
		if upd.Location != nil {
			event.Location = *upd.Location
		}
		if upd.TotalSeats != nil {
			booked := event.BookedSeats()
			if *upd.TotalSeats < booked {
				return storage.ErrInvalidCapacity
			}
			event.TotalSeats = *upd.TotalSeats
			event.SeatsAvailable = *upd.TotalSeats - booked
		}

		updateQuery := `
			UPDATE events
			SET title = $2, description = $3, date = $4, location = $5,
			    total_seats = $6, seats_available = $7, updated_at = now()
			WHERE id = $1
			RETURNING ` + eventColumns

		updated, err = scanEvent(s.q(ctx).QueryRowContext(ctx, updateQuery,
			event.ID,
			event.Title,
			event.Description,
			event.Date,
			event.Location,
			event.TotalSeats,
			event.SeatsAvailable,
		))
		if err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEvent removes an event on behalf of actorID. Deletion is refused
// while active bookings exist; cancelling them first is the caller's job.
func (s *Storage) DeleteEvent(ctx context.Context, id, actorID int64, admin bool) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		var organizerID int64
		err := s.q(ctx).QueryRowContext(ctx,
			`SELECT organizer_id FROM events WHERE id = $1 FOR UPDATE`, id,
		).Scan(&organizerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}

		if !admin && organizerID != actorID {
			return storage.ErrNotOwner
		}

		var bookings int
		err = s.q(ctx).QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE event_id = $1`, id,
		).Scan(&bookings)
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}
		if bookings > 0 {
			return storage.ErrEventHasBookings
		}

		if _, err = s.q(ctx).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}

		return nil
	})
}
