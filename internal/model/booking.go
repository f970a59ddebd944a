package model

import "time"

// Booking room statuses.  Each room in a booking moves independently.
const (
    StatusPending   = "pending"
    StatusApproved  = "approved"
    StatusCancelled = "cancelled"
)

// Booking is created by a user and re-dated by staff.  StaffEmail selects
// the staff inbox the booking is routed to; it is not a foreign key.
type Booking struct {
    ID           uint64  // bookings.id
    UserID       uint64  // bookings.user_id
    StartDate    string  // bookings.start_date (YYYY-MM-DD)
    EndDate      string  // bookings.end_date (YYYY-MM-DD)
    StaffEmail   *string // bookings.staff_email (nullable)
    FirstMessage string  // bookings.first_message
}

// BookingRoom joins a booking to a room.  StaffID records the staff member
// who last changed Status.
type BookingRoom struct {
    ID        uint64  // booking_rooms.id
    BookingID uint64  // booking_rooms.booking_id
    RoomID    uint64  // booking_rooms.room_id
    Status    string  // booking_rooms.status
    StaffID   *uint64 // booking_rooms.staff_id (nullable)
}

// Favourite is a unique (user, hotel) pair.
type Favourite struct {
    UserID  uint64
    HotelID uint64
}

// Message is one entry of a booking's append-only thread.  IDs increase
// with insertion order.
type Message struct {
    ID          uint64    `json:"id"`
    BookingID   uint64    `json:"booking_id"`
    SenderID    uint64    `json:"sender_id"`
    RecipientID uint64    `json:"recipient_id"`
    Message     string    `json:"message"`
    CreatedAt   time.Time `json:"created_at"`
}
