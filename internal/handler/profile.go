package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-api/internal/config"
	"github.com/iliyamo/hotel-booking-api/internal/model"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/utils"
	"github.com/iliyamo/hotel-booking-api/internal/validation"
)

// ProfileHandler serves profile reads, updates and the admin user list.
type ProfileHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewProfileHandler(cfg config.Config, users *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: users}
}

// publicUser is what staff see of a booking owner.
type publicUser struct {
	ID        uint64 `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarurl"`
}

func (h *ProfileHandler) writeUser(c echo.Context, id uint64) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, "load profile failed", err)
	}
	return c.JSON(http.StatusOK, u)
}

// Get returns the caller's own profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	return h.writeUser(c, uid)
}

// GetByID returns any profile.  The route is limited to admins and
// operators.
func (h *ProfileHandler) GetByID(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid user id")
	}
	return h.writeUser(c, id)
}

// Update applies a partial profile update to the caller, or to the user in
// the :id path parameter when the caller is an admin.  Only allow-listed
// columns can change.  Role changes need an admin.  A self-service password
// change needs the current password.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	callerRole := getRole(c)

	target := uid
	if c.Param("id") != "" {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return message(c, http.StatusBadRequest, "Invalid user id")
		}
		target = id
	}
	if target != uid && callerRole != model.RoleAdmin {
		return message(c, http.StatusForbidden, "Access denied")
	}

	var req validation.ProfileUpdate
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}

	upd := repository.UserUpdate{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		About:     req.About,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	}
	if req.Role != nil {
		if callerRole != model.RoleAdmin {
			return message(c, http.StatusForbidden, "Only admins can change roles")
		}
		if !model.ValidRole(*req.Role) {
			return message(c, http.StatusBadRequest, "Invalid role. Must be one of: admin, operator, user")
		}
		upd.Role = req.Role
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	if req.NewPassword != nil {
		if len(*req.NewPassword) < utils.MinPasswordLength {
			return message(c, http.StatusBadRequest, "New password must be at least 6 characters long")
		}
		if target == uid {
			if req.OldPassword == nil || *req.OldPassword == "" {
				return message(c, http.StatusBadRequest, "Old password is required to change password")
			}
			current, err := h.Users.GetByID(ctx, uid)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return message(c, http.StatusNotFound, "User not found")
				}
				return internalError(c, "load profile failed", err)
			}
			if !utils.VerifyPassword(current.PasswordHash, *req.OldPassword) {
				return message(c, http.StatusUnauthorized, "Old password is incorrect")
			}
		}
		cost := h.Cfg.BcryptCost
		if cost == 0 {
			cost = 10
		}
		hash, err := utils.HashPassword(*req.NewPassword, cost)
		if err != nil {
			return internalError(c, "hash password failed", err)
		}
		upd.PasswordHash = &hash
	}

	if upd.Empty() {
		return message(c, http.StatusBadRequest, "No valid fields provided for update")
	}
	if err := h.Users.Update(ctx, target, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return message(c, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrDuplicate):
			return message(c, http.StatusConflict, "Email already in use")
		}
		return internalError(c, "update profile failed", err)
	}
	return message(c, http.StatusOK, "User information updated successfully")
}

// List pages through every user.  Admin only.
func (h *ProfileHandler) List(c echo.Context) error {
	limit, page, offset := utils.Page(c.QueryParam("limit"), c.QueryParam("page"), 10, 100)
	ctx, cancel := dbContext(c)
	defer cancel()

	users, err := h.Users.List(ctx, limit, offset)
	if err != nil {
		return internalError(c, "list users failed", err)
	}
	if len(users) == 0 {
		return message(c, http.StatusNotFound, "No users found")
	}
	return c.JSON(http.StatusOK, echo.Map{"page": page, "limit": limit, "users": users})
}

// BookingUser returns the public profile of a booking's owner.  Staff only.
func (h *ProfileHandler) BookingUser(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid booking id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.OwnerOfBooking(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return message(c, http.StatusNotFound, "Booking not found")
		}
		return internalError(c, "load booking owner failed", err)
	}
	return c.JSON(http.StatusOK, publicUser{
		ID: u.ID, Firstname: u.Firstname, Lastname: u.Lastname,
		Username: u.Username, Email: u.Email, AvatarURL: u.AvatarURL,
	})
}

// Delete removes a user and, by cascade, their bookings, messages and
// favourites.  Admin only; an admin cannot delete itself.
func (h *ProfileHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid user id")
	}
	if id == uid {
		return message(c, http.StatusConflict, "You cannot delete your own account")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, "delete user failed", err)
	}
	return message(c, http.StatusOK, "User deleted successfully")
}
