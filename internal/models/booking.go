package models

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	TicketID  string    `json:"ticket_id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBooking is a booking joined with the event fields shown in listings.
type UserBooking struct {
	Booking
	EventTitle    string    `json:"event_title"`
	EventDate     time.Time `json:"event_date"`
	EventLocation string    `json:"event_location"`
}
