package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/validation"
)

// FavouriteHandler manages the caller's favourite hotels.
type FavouriteHandler struct {
	Favs *repository.FavouriteRepo
}

func NewFavouriteHandler(favs *repository.FavouriteRepo) *FavouriteHandler {
	return &FavouriteHandler{Favs: favs}
}

// Add marks a hotel as favourite.  Adding twice is not an error.
func (h *FavouriteHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	var req validation.Favourites
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Favs.Add(ctx, uid, req.HotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return message(c, http.StatusNotFound, "Hotel not found")
		}
		return internalError(c, "add favourite failed", err)
	}
	return message(c, http.StatusOK, "Favourite added successfully.")
}

// Delete removes a favourite.  Removing an absent pair succeeds with a
// different message.
func (h *FavouriteHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	var req validation.Favourites
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	found, err := h.Favs.Delete(ctx, uid, req.HotelID)
	if err != nil {
		return internalError(c, "delete favourite failed", err)
	}
	if !found {
		return message(c, http.StatusOK, "Favourite not found.")
	}
	return message(c, http.StatusOK, "Favourite removed successfully.")
}

// List returns the full hotel rows of the caller's favourites.
func (h *FavouriteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	hotels, err := h.Favs.List(ctx, uid)
	if err != nil {
		return internalError(c, "list favourites failed", err)
	}
	out := make([]hotelView, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, newHotelView(ht))
	}
	return c.JSON(http.StatusOK, out)
}
