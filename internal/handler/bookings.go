package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-booking-api/internal/database"
	"github.com/iliyamo/hotel-booking-api/internal/logger"
	"github.com/iliyamo/hotel-booking-api/internal/metrics"
	"github.com/iliyamo/hotel-booking-api/internal/model"
	"github.com/iliyamo/hotel-booking-api/internal/queue"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-booking-api/internal/service"
	"github.com/iliyamo/hotel-booking-api/internal/validation"
)

// EventPublisher hands committed booking events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// publishTimeout bounds the best-effort publish after a commit.
const publishTimeout = 3 * time.Second

// BookingHandler creates, lists and updates bookings.
type BookingHandler struct {
	DB       *sql.DB
	Bookings *repository.BookingRepo
	Messages *repository.MessageRepo
	Users    *repository.UserRepo
	Events   EventPublisher // nil disables events
	Metrics  *metrics.Metrics
}

func NewBookingHandler(db *sql.DB, b *repository.BookingRepo, msgs *repository.MessageRepo, users *repository.UserRepo, ev EventPublisher, m *metrics.Metrics) *BookingHandler {
	return &BookingHandler{DB: db, Bookings: b, Messages: msgs, Users: users, Events: ev, Metrics: m}
}

type bookingRoomView struct {
	ID      uint64  `json:"id"`
	RoomID  uint64  `json:"room_id"`
	Status  string  `json:"status"`
	StaffID *uint64 `json:"staff_id"`
}

type bookingView struct {
	BookingID    uint64            `json:"booking_id"`
	UserID       uint64            `json:"user_id"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	StaffEmail   *string           `json:"staff_email"`
	FirstMessage string            `json:"first_message"`
	Rooms        []bookingRoomView `json:"rooms"`
}

// datesOrdered reports whether end is not before start.  Both are
// YYYY-MM-DD, already format-checked by the schema.
func datesOrdered(start, end string) bool {
	s, err1 := time.Parse(time.DateOnly, start)
	e, err2 := time.Parse(time.DateOnly, end)
	return err1 == nil && err2 == nil && !e.Before(s)
}

func dateOrderError() error {
	return &validation.Error{Errors: []validation.FieldError{{Property: "end_date", Message: "must not be before start_date"}}}
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Create books one or more rooms for the caller.  The booking row and all
// of its rooms are written in one transaction.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	var req validation.CreateBooking
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	if !datesOrdered(req.StartDate, req.EndDate) {
		return validation.Respond(c, dateOrderError())
	}
	roomIDs := uniqueIDs(req.RoomIDs)

	b := &model.Booking{UserID: uid, StartDate: req.StartDate, EndDate: req.EndDate, FirstMessage: req.FirstMessage}
	if req.StaffEmail != "" {
		b.StaffEmail = &req.StaffEmail
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	err = database.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
			return err
		}
		return h.Bookings.AddRoomsTx(ctx, tx, b.ID, roomIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return message(c, http.StatusNotFound, "Room not found")
		}
		return internalError(c, "create booking failed", err)
	}
	if h.Metrics != nil {
		h.Metrics.BookingsCreated.Inc()
	}

	rooms := make([]queue.RoomStatus, 0, len(roomIDs))
	for _, id := range roomIDs {
		rooms = append(rooms, queue.RoomStatus{RoomID: id, Status: model.StatusPending})
	}
	h.publish(c, queue.BookingEvent{
		Event: queue.EventBookingCreated, BookingID: b.ID, UserID: uid, ActorID: uid,
		StartDate: b.StartDate, EndDate: b.EndDate, Rooms: rooms, Message: b.FirstMessage,
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "Booking created successfully", "booking_id": b.ID})
}

// List returns the caller's bookings with their rooms.  Staff (by stored
// role) see their inbox: bookings with no staff email or with theirs.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "User role not found")
		}
		return internalError(c, "load caller failed", err)
	}

	var bookings []model.Booking
	switch {
	case model.IsStaff(u.Role):
		bookings, err = h.Bookings.ListForStaff(ctx, u.Email)
	case u.Role == model.RoleUser:
		bookings, err = h.Bookings.ListByUser(ctx, uid)
	default:
		return message(c, http.StatusForbidden, "Access denied")
	}
	if err != nil {
		return internalError(c, "list bookings failed", err)
	}
	if len(bookings) == 0 {
		return message(c, http.StatusNotFound, "No bookings found")
	}

	out := make([]bookingView, len(bookings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, b := range bookings {
		out[i] = bookingView{
			BookingID: b.ID, UserID: b.UserID, StartDate: b.StartDate, EndDate: b.EndDate,
			StaffEmail: b.StaffEmail, FirstMessage: b.FirstMessage,
		}
		g.Go(func() error {
			rooms, err := h.Bookings.RoomsByBooking(gctx, b.ID)
			if err != nil {
				return err
			}
			views := make([]bookingRoomView, 0, len(rooms))
			for _, r := range rooms {
				views = append(views, bookingRoomView{ID: r.ID, RoomID: r.RoomID, Status: r.Status, StaffID: r.StaffID})
			}
			out[i].Rooms = views
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return internalError(c, "load booking rooms failed", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Update is the staff workflow: re-date the booking, set each listed room's
// status and post a message to the booking's owner.  Everything commits or
// nothing does.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	var req validation.UpdateBooking
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	if !datesOrdered(req.StartDate, req.EndDate) {
		return validation.Respond(c, dateOrderError())
	}

	var (
		owner   uint64
		missing uint64
	)
	ctx, cancel := dbContext(c)
	defer cancel()
	err = database.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		b, err := h.Bookings.GetForUpdateTx(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		owner = b.UserID
		if err := h.Bookings.UpdateDatesTx(ctx, tx, b.ID, req.StartDate, req.EndDate); err != nil {
			return err
		}
		for _, ru := range req.RoomUpdates {
			if err := h.Bookings.UpdateRoomStatusTx(ctx, tx, b.ID, ru.RoomID, ru.Status, uid); err != nil {
				missing = ru.RoomID
				return err
			}
		}
		return h.Messages.InsertTx(ctx, tx, &model.Message{
			BookingID: b.ID, SenderID: uid, RecipientID: b.UserID, Message: req.Message,
		})
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrBookingNotFound):
		return message(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, repository.ErrRoomNotInBooking):
		return message(c, http.StatusNotFound, fmt.Sprintf("Room %d is not part of booking %d", missing, req.BookingID))
	default:
		return internalError(c, "update booking failed", err)
	}

	rooms := make([]queue.RoomStatus, 0, len(req.RoomUpdates))
	for _, ru := range req.RoomUpdates {
		rooms = append(rooms, queue.RoomStatus{RoomID: ru.RoomID, Status: ru.Status})
	}
	if h.Metrics != nil {
		h.Metrics.BookingsUpdated.Inc()
		for _, r := range rooms {
			h.Metrics.BookingRoomUpdates.WithLabelValues(r.Status).Inc()
		}
	}
	h.publish(c, queue.BookingEvent{
		Event: queue.EventBookingUpdated, BookingID: req.BookingID, UserID: owner, ActorID: uid,
		StartDate: req.StartDate, EndDate: req.EndDate, Rooms: rooms, Message: req.Message,
	})
	return message(c, http.StatusOK, "Booking updated successfully")
}

// publish sends ev after the commit.  Failures are logged and counted; they
// never change the response.
func (h *BookingHandler) publish(c echo.Context, ev queue.BookingEvent) {
	if h.Events == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()

	result := "ok"
	if err := h.Events.Publish(ctx, ev); err != nil {
		if errors.Is(err, queue_publisher.ErrDisabled) {
			return
		}
		result = "error"
		logger.FromEcho(c).Warn("publish booking event failed", "event", ev.Event, "booking_id", ev.BookingID, "error", err)
	}
	if h.Metrics != nil {
		h.Metrics.EventsPublished.WithLabelValues(ev.Event, result).Inc()
	}
}
