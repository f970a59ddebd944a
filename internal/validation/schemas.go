package validation

// User is the registration schema.  Role is accepted for compatibility but
// the public handler always stores "user".
type User struct {
	Firstname string `json:"firstname" validate:"max=32"`
	Lastname  string `json:"lastname" validate:"max=32"`
	Username  string `json:"username" validate:"required,max=16"`
	About     string `json:"about"`
	Email     string `json:"email" validate:"required,email,max=64"`
	Password  string `json:"password" validate:"required,max=32"`
	AvatarURL string `json:"avatarurl" validate:"max=255"`
	Role      string `json:"role" validate:"omitempty,oneof=admin operator user"`
}

// StaffRegister is User plus the one-time signup code.
type StaffRegister struct {
	Firstname  string `json:"firstname" validate:"max=32"`
	Lastname   string `json:"lastname" validate:"max=32"`
	Username   string `json:"username" validate:"required,max=16"`
	About      string `json:"about"`
	Email      string `json:"email" validate:"required,email,max=64"`
	Password   string `json:"password" validate:"required,max=32"`
	AvatarURL  string `json:"avatarurl" validate:"max=255"`
	Role       string `json:"role" validate:"omitempty,oneof=admin operator user"`
	SignupCode string `json:"signupCode"`
}

// Login has no required fields: blank credentials are simply invalid.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdate lists every column a profile update may touch.  Nil means
// "leave unchanged".
type ProfileUpdate struct {
	Firstname   *string `json:"firstname" validate:"omitempty,max=32"`
	Lastname    *string `json:"lastname" validate:"omitempty,max=32"`
	About       *string `json:"about"`
	Email       *string `json:"email" validate:"omitempty,email,max=64"`
	AvatarURL   *string `json:"avatarurl" validate:"omitempty,max=255"`
	Role        *string `json:"role"`
	OldPassword *string `json:"oldPassword"`
	NewPassword *string `json:"newPassword" validate:"omitempty,max=32"`
}

// SearchHotels filters by exact location.  The date fields are accepted and
// format-checked but do not filter.
type SearchHotels struct {
	Country   string `json:"country" validate:"max=64"`
	City      string `json:"city" validate:"max=64"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateBooking is the booking request.  UserID is accepted but the owner is
// always the authenticated caller.
type CreateBooking struct {
	UserID       *uint64  `json:"user_id"`
	StartDate    string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	StaffEmail   string   `json:"staff_email" validate:"omitempty,email,max=64"`
	FirstMessage string   `json:"first_message" validate:"required"`
	RoomIDs      []uint64 `json:"room_ids" validate:"required,min=1,dive,gt=0"`
	Status       string   `json:"status" validate:"omitempty,oneof=pending approved cancelled"`
}

// RoomUpdate sets the status of one room inside a booking.
type RoomUpdate struct {
	RoomID uint64 `json:"room_id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,oneof=pending approved cancelled"`
}

// UpdateBooking is the staff update workflow request.
type UpdateBooking struct {
	BookingID   uint64       `json:"booking_id" validate:"required,gt=0"`
	StartDate   string       `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string       `json:"end_date" validate:"required,datetime=2006-01-02"`
	RoomUpdates []RoomUpdate `json:"room_updates" validate:"dive"`
	Message     string       `json:"message" validate:"required"`
}

// Favourites names one hotel.
type Favourites struct {
	HotelID uint64 `json:"hotel_id" validate:"required,gt=0"`
}

// BookingMessages asks for the latest message of each booking, optionally
// only those newer than Since.
type BookingMessages struct {
	BookingIDs []uint64 `json:"booking_ids" validate:"required,min=1,max=100,dive,gt=0"`
	Since      uint64   `json:"since"`
}
