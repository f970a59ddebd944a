package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// FavouriteRepo stores (user, hotel) pairs.  Add and Delete are idempotent.
type FavouriteRepo struct{ db *sql.DB }

func NewFavouriteRepo(db *sql.DB) *FavouriteRepo { return &FavouriteRepo{db: db} }

// Add inserts the pair.  A second Add of the same pair is a no-op; an unknown
// hotel yields ErrHotelNotFound.
func (r *FavouriteRepo) Add(ctx context.Context, userID, hotelID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO favourites (user_id, hotel_id) VALUES (?, ?) ON DUPLICATE KEY UPDATE hotel_id = hotel_id",
		userID, hotelID)
	if isMySQLError(err, mysqlMissingReference) {
		return ErrHotelNotFound
	}
	return err
}

// Delete removes the pair and reports whether a row existed.
func (r *FavouriteRepo) Delete(ctx context.Context, userID, hotelID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM favourites WHERE user_id = ? AND hotel_id = ?", userID, hotelID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the full hotel rows the user marked as favourite.
func (r *FavouriteRepo) List(ctx context.Context, userID uint64) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT h.id, h.name, COALESCE(h.description, ''), h.city, h.country, h.address, h.rating, h.review_count, h.image_url "+
			"FROM favourites f JOIN hotels h ON h.id = f.hotel_id WHERE f.user_id = ? ORDER BY h.id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
