package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-booking-api/internal/model"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/utils"
	"github.com/iliyamo/hotel-booking-api/internal/validation"
)

// apiPrefix is the mount point of every versioned route; links are built
// from it.
const apiPrefix = "/api/v1"

// fanOut bounds concurrent per-row queries issued by one request.
const fanOut = 8

// HotelHandler serves the public hotel catalogue.
type HotelHandler struct {
	Hotels *repository.HotelRepo
}

func NewHotelHandler(hotels *repository.HotelRepo) *HotelHandler {
	return &HotelHandler{Hotels: hotels}
}

type links map[string]string

type hotelView struct {
	model.Hotel
	Links links `json:"links"`
}

type roomView struct {
	model.Room
	Links links `json:"links"`
}

type searchResult struct {
	model.Hotel
	CheapestRoom *roomView `json:"cheapest_room"`
	Links        links     `json:"links"`
}

func hotelLink(id uint64) string { return fmt.Sprintf("%s/hotels/%d", apiPrefix, id) }

func newHotelView(h model.Hotel) hotelView {
	return hotelView{Hotel: h, Links: links{"self": hotelLink(h.ID)}}
}

func newRoomView(r model.Room) roomView {
	return roomView{Room: r, Links: links{
		"hotel": hotelLink(r.HotelID),
		"self":  fmt.Sprintf("%s/rooms", hotelLink(r.HotelID)),
	}}
}

// List returns one page of hotels; limit defaults to and is capped at 100.
func (h *HotelHandler) List(c echo.Context) error {
	limit, _, offset := utils.Page(c.QueryParam("limit"), c.QueryParam("page"), 100, 100)
	ctx, cancel := dbContext(c)
	defer cancel()

	hotels, err := h.Hotels.List(ctx, limit, offset)
	if err != nil {
		return internalError(c, "list hotels failed", err)
	}
	if len(hotels) == 0 {
		return message(c, http.StatusNotFound, "No hotels found")
	}
	out := make([]hotelView, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, newHotelView(ht))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one hotel.
func (h *HotelHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid hotel id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ht, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return message(c, http.StatusNotFound, "Hotel not found")
		}
		return internalError(c, "get hotel failed", err)
	}
	return c.JSON(http.StatusOK, newHotelView(ht))
}

// Rooms lists a hotel's rooms, cheapest effective price first.
func (h *HotelHandler) Rooms(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid hotel id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	rooms, err := h.Hotels.RoomsByHotel(ctx, id)
	if err != nil {
		return internalError(c, "list rooms failed", err)
	}
	if len(rooms) == 0 {
		return message(c, http.StatusNotFound, "No rooms found for this hotel")
	}
	out := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, newRoomView(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Search filters hotels by exact country and city and attaches each hotel's
// cheapest discounted room with capacity of at least two.  The date fields
// are accepted but do not filter.
func (h *HotelHandler) Search(c echo.Context) error {
	var req validation.SearchHotels
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	hotels, err := h.Hotels.Search(ctx, repository.HotelSearch{Country: req.Country, City: req.City})
	if err != nil {
		return internalError(c, "search hotels failed", err)
	}
	if len(hotels) == 0 {
		return message(c, http.StatusNotFound, "No hotels found matching the criteria")
	}

	out := make([]searchResult, len(hotels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, ht := range hotels {
		out[i] = searchResult{Hotel: ht, Links: links{"self": hotelLink(ht.ID)}}
		g.Go(func() error {
			rm, err := h.Hotels.CheapestDiscountedRoom(gctx, ht.ID)
			if err != nil {
				return err
			}
			if rm != nil {
				v := newRoomView(*rm)
				out[i].CheapestRoom = &v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return internalError(c, "load cheapest rooms failed", err)
	}
	return c.JSON(http.StatusOK, out)
}
