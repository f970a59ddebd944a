// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish between
// failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrUserNotFound is returned when no user row matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrHotelNotFound is returned when no hotel row matches.
	ErrHotelNotFound = errors.New("hotel not found")
	// ErrRoomNotFound is returned when a booking names a room id that does
	// not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrBookingNotFound is returned when no booking row matches.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrRoomNotInBooking is returned when a room update names a room that is
	// not part of the booking.
	ErrRoomNotInBooking = errors.New("room not part of booking")
	// ErrSignupCodeInvalid is returned when a signup code is absent or used.
	ErrSignupCodeInvalid = errors.New("invalid or already used signup code")
	// ErrDuplicate is returned when an insert or update violates a unique key.
	// Handlers translate it into HTTP 409.
	ErrDuplicate = errors.New("duplicate entry")
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they may not touch.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of the
// current state, such as an admin deleting its own account.  Handlers
// translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers.
const (
	mysqlDuplicateKey     = 1062 // ER_DUP_ENTRY
	mysqlMissingReference = 1452 // ER_NO_REFERENCED_ROW_2
)

// isMySQLError reports whether err carries the given server error number.
func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

// mapDuplicate converts a MySQL duplicate-key error into ErrDuplicate and
// returns every other error unchanged.
func mapDuplicate(err error) error {
	if isMySQLError(err, mysqlDuplicateKey) {
		return ErrDuplicate
	}
	return err
}
