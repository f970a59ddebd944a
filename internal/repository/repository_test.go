package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var userCols = []string{"id", "firstname", "lastname", "username", "about", "email", "password", "avatarurl", "role", "created_at"}

func TestUserCreate_DuplicateMapsToErrDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	_, err := NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice", Email: "a@x.com", Role: model.RoleUser})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserCreate_SetsID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("", "", "alice", "", "a@x.com", "hash", "", model.RoleUser).
		WillReturnResult(sqlmock.NewResult(7, 1))

	u := &model.User{Username: "alice", Email: " a@x.com ", PasswordHash: "hash", Role: model.RoleUser}
	id, err := NewUserRepo(db).Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.Equal(t, uint64(7), u.ID)
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := NewUserRepo(db).GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserGetByID_Scans(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(3, "Al", "Ice", "alice", "", "a@x.com", "hash", "", "operator", now))

	u, err := NewUserRepo(db).GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "operator", u.Role)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserUpdate_AllowListedColumnsOnly(t *testing.T) {
	db, mock := newMock(t)
	first, role := "Bob", "admin"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET firstname = ?, role = ? WHERE id = ?")).
		WithArgs("Bob", "admin", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewUserRepo(db).Update(context.Background(), 9, UserUpdate{Firstname: &first, Role: &role})
	assert.NoError(t, err)
}

func TestUserUpdate_MissingRow(t *testing.T) {
	db, mock := newMock(t)
	about := "x"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET about = ? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewUserRepo(db).Update(context.Background(), 9, UserUpdate{About: &about})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdate_Empty(t *testing.T) {
	assert.True(t, UserUpdate{}.Empty())
	s := ""
	assert.False(t, UserUpdate{About: &s}.Empty())
}

func TestUserDelete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewUserRepo(db).Delete(context.Background(), 5), ErrUserNotFound)
}

func TestSignupCode_UsedCodeRejected(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM signup_codes WHERE code = ? FOR UPDATE")).
		WithArgs("ABC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "generated_for", "is_used"}).AddRow(1, "ABC", "operator", true))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = NewSignupCodeRepo(db).LockUnusedTx(context.Background(), tx, "ABC")
	assert.ErrorIs(t, err, ErrSignupCodeInvalid)
	require.NoError(t, tx.Rollback())
}

func TestSignupCode_MarkUsed(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE signup_codes SET is_used = TRUE WHERE id = ? AND is_used = FALSE")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, NewSignupCodeRepo(db).MarkUsedTx(context.Background(), tx, 1))
	require.NoError(t, tx.Commit())
}

var hotelCols = []string{"id", "name", "description", "city", "country", "address", "rating", "review_count", "image_url"}
var roomCols = []string{"id", "hotel_id", "capacity", "bed_option", "amenities", "price_per_night", "has_discount", "discount_rate"}

func TestHotelGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM hotels WHERE id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(hotelCols))

	_, err := NewHotelRepo(db).GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestHotelRoomsByHotel_FillsActualPrice(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE hotel_id = ? ORDER BY " + effectivePriceSQL)).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow(10, 2, 2, "double", "", 100.0, true, 0.25).
			AddRow(11, 2, 1, "single", "wifi", 90.0, false, 0.0))

	rooms, err := NewHotelRepo(db).RoomsByHotel(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.InDelta(t, 75.0, rooms[0].ActualPrice, 1e-9)
	assert.InDelta(t, 90.0, rooms[1].ActualPrice, 1e-9)
}

func TestHotelSearch_BuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM hotels WHERE country = ? AND city = ? ORDER BY id")).
		WithArgs("Italy", "Rome").
		WillReturnRows(sqlmock.NewRows(hotelCols).AddRow(1, "Roma", "", "Rome", "Italy", "", 4.5, 10, ""))

	hs, err := NewHotelRepo(db).Search(context.Background(), HotelSearch{Country: "Italy", City: "Rome"})
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "Roma", hs[0].Name)
}

func TestHotelSearch_NoFilters(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM hotels WHERE 1=1 ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(hotelCols))

	hs, err := NewHotelRepo(db).Search(context.Background(), HotelSearch{})
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestHotelCheapestDiscountedRoom_None(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("has_discount = TRUE AND capacity >= 2")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows(roomCols))

	rm, err := NewHotelRepo(db).CheapestDiscountedRoom(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, rm)
}

func TestBookingAddRoomsTx_SingleStatement(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_rooms (booking_id, room_id, status) VALUES (?, ?, ?),(?, ?, ?)")).
		WithArgs(uint64(1), uint64(10), "pending", uint64(1), uint64(11), "pending").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, NewBookingRepo(db).AddRoomsTx(context.Background(), tx, 1, []uint64{10, 11}))
	require.NoError(t, tx.Commit())
}

func TestBookingAddRoomsTx_UnknownRoom(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_rooms")).
		WillReturnError(&mysql.MySQLError{Number: 1452})
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = NewBookingRepo(db).AddRoomsTx(context.Background(), tx, 1, []uint64{99})
	assert.ErrorIs(t, err, ErrRoomNotFound)
	require.NoError(t, tx.Rollback())
}

func TestBookingCreateTx_EmptyStaffEmailIsNull(t *testing.T) {
	db, mock := newMock(t)
	empty := ""
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(uint64(3), "2025-01-01", "2025-01-02", nil, "hi").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	b := &model.Booking{UserID: 3, StartDate: "2025-01-01", EndDate: "2025-01-02", StaffEmail: &empty, FirstMessage: "hi"}
	require.NoError(t, NewBookingRepo(db).CreateTx(context.Background(), tx, b))
	require.NoError(t, tx.Commit())
	assert.Equal(t, uint64(12), b.ID)
}

func TestBookingUpdateRoomStatusTx_NotInBooking(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE booking_rooms SET status = ?, staff_id = ? WHERE booking_id = ? AND room_id = ?")).
		WithArgs("approved", uint64(2), uint64(1), uint64(50)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = NewBookingRepo(db).UpdateRoomStatusTx(context.Background(), tx, 1, 50, "approved", 2)
	assert.ErrorIs(t, err, ErrRoomNotInBooking)
	require.NoError(t, tx.Rollback())
}

func TestBookingListForStaff_NullableEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE staff_email IS NULL OR staff_email = '' OR staff_email = ?")).
		WithArgs("ops@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "start_date", "end_date", "staff_email", "first_message"}).
			AddRow(2, 5, "2025-01-01", "2025-01-03", nil, "hello").
			AddRow(1, 6, "2025-02-01", "2025-02-03", "ops@x.com", "hi"))

	bs, err := NewBookingRepo(db).ListForStaff(context.Background(), "ops@x.com")
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Nil(t, bs[0].StaffEmail)
	require.NotNil(t, bs[1].StaffEmail)
	assert.Equal(t, "ops@x.com", *bs[1].StaffEmail)
}

func TestFavouriteAdd_Idempotent(t *testing.T) {
	db, mock := newMock(t)
	q := regexp.QuoteMeta("INSERT INTO favourites (user_id, hotel_id) VALUES (?, ?) ON DUPLICATE KEY UPDATE hotel_id = hotel_id")
	mock.ExpectExec(q).WithArgs(uint64(1), uint64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(uint64(1), uint64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewFavouriteRepo(db)
	assert.NoError(t, repo.Add(context.Background(), 1, 2))
	assert.NoError(t, repo.Add(context.Background(), 1, 2))
}

func TestFavouriteAdd_UnknownHotel(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favourites")).WillReturnError(&mysql.MySQLError{Number: 1452})

	assert.ErrorIs(t, NewFavouriteRepo(db).Add(context.Background(), 1, 99), ErrHotelNotFound)
}

func TestFavouriteDelete_ReportsExistence(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favourites")).WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := NewFavouriteRepo(db).Delete(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMessageLatestForBooking_Watermark(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("AND id > ? ORDER BY id DESC LIMIT 1")).
		WithArgs(uint64(4), uint64(7), uint64(7), uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "sender_id", "recipient_id", "message", "created_at"}))

	m, err := NewMessageRepo(db).LatestForBooking(context.Background(), 4, 7, 20)
	require.NoError(t, err)
	assert.Nil(t, m)
}
