// Package queue defines the booking event payloads exchanged over RabbitMQ and
// the consumer that appends them to the booking log.
package queue

import "time"

// Routing keys published on BookingExchange.
const (
    EventBookingCreated = "booking.created"
    EventBookingUpdated = "booking.updated"
)

// BookingExchange is a durable topic exchange carrying booking.* events.
const BookingExchange = "bookings"

// RoomStatus is the status of one room after a booking event.
type RoomStatus struct {
    RoomID uint64 `json:"room_id"`
    Status string `json:"status"`
}

// BookingEvent is published after a booking create or staff update has
// committed.  It carries enough for consumers to log or notify without
// reading the database.
type BookingEvent struct {
    Event      string       `json:"event"`
    BookingID  uint64       `json:"booking_id"`
    UserID     uint64       `json:"user_id"`  // booking owner
    ActorID    uint64       `json:"actor_id"` // caller that caused the event
    StartDate  string       `json:"start_date"`
    EndDate    string       `json:"end_date"`
    Rooms      []RoomStatus `json:"rooms"`
    Message    string       `json:"message,omitempty"`
    OccurredAt time.Time    `json:"occurred_at"`
}
