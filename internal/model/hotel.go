package model

// Hotel is a read-only listing.  Rating and ReviewCount are maintained
// outside of this API.
type Hotel struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Description string  `json:"description"`
    City        string  `json:"city"`
    Country     string  `json:"country"`
    Address     string  `json:"address"`
    Rating      float64 `json:"rating"`
    ReviewCount int     `json:"review_count"`
    ImageURL    string  `json:"image_url"`
}

// Room belongs to a hotel.  ActualPrice is never stored; it is filled from
// EffectivePrice when the row is read.
type Room struct {
    ID            uint64  `json:"id"`
    HotelID       uint64  `json:"hotel_id"`
    Capacity      int     `json:"capacity"`
    BedOption     string  `json:"bed_option"`
    Amenities     string  `json:"amenities"`
    PricePerNight float64 `json:"price_per_night"`
    HasDiscount   bool    `json:"has_discount"`
    DiscountRate  float64 `json:"discount_rate"`
    ActualPrice   float64 `json:"actual_price"`
}

// EffectivePrice is price*(1-rate) when a discount is active, else price.
func EffectivePrice(price float64, hasDiscount bool, rate float64) float64 {
    if !hasDiscount {
        return price
    }
    return price * (1 - rate)
}

// Fill computes the derived ActualPrice field.
func (r *Room) Fill() {
    r.ActualPrice = EffectivePrice(r.PricePerNight, r.HasDiscount, r.DiscountRate)
}
