package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-booking-api/internal/model"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/validation"
)

// MessageHandler serves the per-booking message threads.
type MessageHandler struct {
	Messages *repository.MessageRepo
}

func NewMessageHandler(msgs *repository.MessageRepo) *MessageHandler {
	return &MessageHandler{Messages: msgs}
}

// Latest returns, for each requested booking, the newest message the caller
// sent or received with an id above the since watermark.  Bookings without
// such a message are left out; the rest keep request order.
func (h *MessageHandler) Latest(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	var req validation.BookingMessages
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	found := make([]*model.Message, len(req.BookingIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, bid := range req.BookingIDs {
		g.Go(func() error {
			m, err := h.Messages.LatestForBooking(gctx, bid, uid, req.Since)
			found[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return internalError(c, "load messages failed", err)
	}

	out := make([]model.Message, 0, len(found))
	for _, m := range found {
		if m != nil {
			out = append(out, *m)
		}
	}
	return c.JSON(http.StatusOK, out)
}
