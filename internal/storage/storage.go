// Package storage defines the error kinds and parameter types shared by
// storage implementations and their callers.
package storage

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")

	ErrEventNotApproved  = errors.New("event is not approved for booking")
	ErrEventFinished     = errors.New("event date has already passed")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrInvalidCapacity   = errors.New("total seats cannot drop below booked seats")
	ErrEventHasBookings  = errors.New("event still has active bookings")
	ErrStatusAlreadySet  = errors.New("event status has already been decided")
	ErrNotOwner          = errors.New("resource belongs to another user")

	ErrDuplicateTicket = errors.New("ticket id already exists")

	// ErrReleaseOverflow means a seat release would push availability past
	// total capacity. The ledger and the counter disagree; never clamp.
	ErrReleaseOverflow = errors.New("seat release exceeds total capacity")

	// ErrConsistency marks a failed rollback: the seat counter and the
	// ledger may disagree and an operator has to look.
	ErrConsistency = errors.New("booking state may be inconsistent")
)

// NewEvent carries the validated fields for event creation.
type NewEvent struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	TotalSeats  int
	OrganizerID int64
}

// EventUpdate carries the optional fields of an event update.
// A nil field is left unchanged. Changing TotalSeats resizes the event,
// moving seats_available by the same delta.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	TotalSeats  *int
}
