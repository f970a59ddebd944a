package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// BookingRepo owns the bookings and booking_rooms tables.  Writes that are
// part of a larger workflow take the caller's *sql.Tx.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = "id, user_id, DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'), staff_email, first_message"

func scanBooking(s rowScanner) (model.Booking, error) {
	var (
		b     model.Booking
		staff sql.NullString
	)
	if err := s.Scan(&b.ID, &b.UserID, &b.StartDate, &b.EndDate, &staff, &b.FirstMessage); err != nil {
		return model.Booking{}, err
	}
	if staff.Valid {
		v := staff.String
		b.StaffEmail = &v
	}
	return b, nil
}

// CreateTx inserts b and sets its ID.  A nil or empty StaffEmail is stored
// as NULL.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	var staff any
	if b.StaffEmail != nil && *b.StaffEmail != "" {
		staff = *b.StaffEmail
	}
	const q = `INSERT INTO bookings (user_id, start_date, end_date, staff_email, first_message) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.StartDate, b.EndDate, staff, b.FirstMessage)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// AddRoomsTx attaches every room to the booking with status pending in a
// single statement.  An unknown room id yields ErrRoomNotFound.
func (r *BookingRepo) AddRoomsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO booking_rooms (booking_id, room_id, status) VALUES ")
	args := make([]any, 0, len(roomIDs)*3)
	for i, id := range roomIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?)")
		args = append(args, bookingID, id, model.StatusPending)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		if isMySQLError(err, mysqlMissingReference) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListForStaff returns the staff inbox: bookings with no assigned mailbox or
// assigned to staffEmail.
func (r *BookingRepo) ListForStaff(ctx context.Context, staffEmail string) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE staff_email IS NULL OR staff_email = '' OR staff_email = ? ORDER BY id DESC",
		staffEmail)
}

// ListByUser returns the bookings created by userID.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.queryBookings(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY id DESC", userID)
}

// RoomsByBooking returns the booking_rooms rows of one booking.
func (r *BookingRepo) RoomsByBooking(ctx context.Context, bookingID uint64) ([]model.BookingRoom, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, booking_id, room_id, status, staff_id FROM booking_rooms WHERE booking_id = ? ORDER BY id", bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingRoom{}
	for rows.Next() {
		var (
			br    model.BookingRoom
			staff sql.NullInt64
		)
		if err := rows.Scan(&br.ID, &br.BookingID, &br.RoomID, &br.Status, &staff); err != nil {
			return nil, err
		}
		if staff.Valid {
			v := uint64(staff.Int64)
			br.StaffID = &v
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

// GetForUpdateTx loads and locks a booking row.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	b, err := scanBooking(tx.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// UpdateDatesTx re-dates a booking.
func (r *BookingRepo) UpdateDatesTx(ctx context.Context, tx *sql.Tx, id uint64, start, end string) error {
	res, err := tx.ExecContext(ctx, "UPDATE bookings SET start_date = ?, end_date = ? WHERE id = ?", start, end, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// UpdateRoomStatusTx sets one room's status and records the staff member.
// It returns ErrRoomNotInBooking when the room is not part of the booking.
func (r *BookingRepo) UpdateRoomStatusTx(ctx context.Context, tx *sql.Tx, bookingID, roomID uint64, status string, staffID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE booking_rooms SET status = ?, staff_id = ? WHERE booking_id = ? AND room_id = ?",
		status, staffID, bookingID, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotInBooking
	}
	return nil
}
