package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// HotelRepo serves the read-only hotel and room catalogue.
type HotelRepo struct {
	db *sql.DB
}

func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

const hotelColumns = "id, name, COALESCE(description, ''), city, country, address, rating, review_count, image_url"

const roomColumns = "id, hotel_id, capacity, bed_option, COALESCE(amenities, ''), price_per_night, has_discount, discount_rate"

// effectivePriceSQL mirrors model.EffectivePrice for ORDER BY.
const effectivePriceSQL = "CASE WHEN has_discount THEN price_per_night * (1 - discount_rate) ELSE price_per_night END"

func scanHotel(s rowScanner) (model.Hotel, error) {
	var h model.Hotel
	err := s.Scan(&h.ID, &h.Name, &h.Description, &h.City, &h.Country, &h.Address, &h.Rating, &h.ReviewCount, &h.ImageURL)
	return h, err
}

func scanRoom(s rowScanner) (model.Room, error) {
	var rm model.Room
	err := s.Scan(&rm.ID, &rm.HotelID, &rm.Capacity, &rm.BedOption, &rm.Amenities, &rm.PricePerNight, &rm.HasDiscount, &rm.DiscountRate)
	if err == nil {
		rm.Fill()
	}
	return rm, err
}

func (r *HotelRepo) queryHotels(ctx context.Context, q string, args ...any) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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

// List returns one page of hotels ordered by id.
func (r *HotelRepo) List(ctx context.Context, limit, offset int) ([]model.Hotel, error) {
	return r.queryHotels(ctx, "SELECT "+hotelColumns+" FROM hotels ORDER BY id LIMIT ? OFFSET ?", limit, offset)
}

// GetByID returns ErrHotelNotFound when the id is unknown.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, "SELECT "+hotelColumns+" FROM hotels WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrHotelNotFound
	}
	return h, err
}

// RoomsByHotel lists a hotel's rooms, cheapest effective price first.
func (r *HotelRepo) RoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE hotel_id = ? ORDER BY "+effectivePriceSQL+" ASC, id ASC", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// HotelSearch holds exact-match location filters.  Empty fields do not
// filter.
type HotelSearch struct {
	Country string
	City    string
}

// Search returns hotels matching every non-empty filter.
func (r *HotelRepo) Search(ctx context.Context, s HotelSearch) ([]model.Hotel, error) {
	where := []string{}
	args := []any{}
	if s.Country != "" {
		where = append(where, "country = ?")
		args = append(args, s.Country)
	}
	if s.City != "" {
		where = append(where, "city = ?")
		args = append(args, s.City)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return r.queryHotels(ctx, "SELECT "+hotelColumns+" FROM hotels WHERE "+cond+" ORDER BY id", args...)
}

// CheapestDiscountedRoom returns the discounted room with capacity >= 2 and
// the lowest effective price, or nil when the hotel has none.
func (r *HotelRepo) CheapestDiscountedRoom(ctx context.Context, hotelID uint64) (*model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE hotel_id = ? AND has_discount = TRUE AND capacity >= 2 ORDER BY "+
			effectivePriceSQL+" ASC, id ASC LIMIT 1", hotelID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}
