package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// MessageRepo appends to and reads booking message threads.
type MessageRepo struct{ db *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// InsertTx appends m to its booking's thread and sets m.ID.
func (r *MessageRepo) InsertTx(ctx context.Context, tx *sql.Tx, m *model.Message) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO messages (booking_id, sender_id, recipient_id, message) VALUES (?, ?, ?, ?)",
		m.BookingID, m.SenderID, m.RecipientID, m.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// LatestForBooking returns the newest message of the booking that userID
// sent or received and whose id is greater than since.  It returns nil when
// there is none.
func (r *MessageRepo) LatestForBooking(ctx context.Context, bookingID, userID, since uint64) (*model.Message, error) {
	var m model.Message
	err := r.db.QueryRowContext(ctx,
		"SELECT id, booking_id, sender_id, recipient_id, message, created_at FROM messages "+
			"WHERE booking_id = ? AND (sender_id = ? OR recipient_id = ?) AND id > ? ORDER BY id DESC LIMIT 1",
		bookingID, userID, userID, since).
		Scan(&m.ID, &m.BookingID, &m.SenderID, &m.RecipientID, &m.Message, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
