package models

import "time"

type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

type Event struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Date           time.Time   `json:"date"`
	Location       string      `json:"location"`
	TotalSeats     int         `json:"total_seats"`
	SeatsAvailable int         `json:"seats_available"`
	Status         EventStatus `json:"status"`
	OrganizerID    int64       `json:"organizer_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// BookedSeats is the number of seats held by active bookings.
func (e *Event) BookedSeats() int {
	return e.TotalSeats - e.SeatsAvailable
}
