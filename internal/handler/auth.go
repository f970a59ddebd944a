package handler

import (
    "database/sql" // transaction handle for staff registration
    "errors"       // sentinel matching
    "net/http"     // HTTP status codes and primitives
    "strings"      // trimming
    "time"         // token TTL

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/hotel-booking-api/internal/config"     // app configuration
    "github.com/iliyamo/hotel-booking-api/internal/database"   // WithTx
    "github.com/iliyamo/hotel-booking-api/internal/model"      // roles and rows
    "github.com/iliyamo/hotel-booking-api/internal/repository" // DB repositories
    "github.com/iliyamo/hotel-booking-api/internal/utils"      // hashing, token issuing
    "github.com/iliyamo/hotel-booking-api/internal/validation" // request schemas
)

// AuthHandler bundles dependencies for registration, login and role lookup.
type AuthHandler struct {
	Cfg   config.Config
	DB    *sql.DB
	Users *repository.UserRepo
	Codes *repository.SignupCodeRepo
}

func NewAuthHandler(cfg config.Config, db *sql.DB, u *repository.UserRepo, codes *repository.SignupCodeRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, DB: db, Users: u, Codes: codes}
}

func (h *AuthHandler) tokenTTL() time.Duration {
	if h.Cfg.TokenTTLMin <= 0 {
		return utils.DefaultTokenTTL
	}
	return time.Duration(h.Cfg.TokenTTLMin) * time.Minute
}

func (h *AuthHandler) bcryptCost() int {
	if h.Cfg.BcryptCost == 0 {
		return 10
	}
	return h.Cfg.BcryptCost
}

// Login verifies username and password.  Unknown usernames and wrong
// passwords produce the same 401 and cost one bcrypt comparison each.
func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.Login
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.BurnPasswordCheck(req.Password)
			return message(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return internalError(c, "login lookup failed", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return message(c, http.StatusUnauthorized, "Invalid credentials")
	}

	tok, err := utils.IssueToken(h.Cfg.JWTSecret, utils.Payload{ID: u.ID, Role: u.Role, Username: u.Username}, h.tokenTTL())
	if err != nil {
		return internalError(c, "issue token failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   tok.Token,
		"expires": tok.Exp,
		"user":    u,
	})
}

// RegisterPublic creates a regular user.  Any role in the body is ignored.
func (h *AuthHandler) RegisterPublic(c echo.Context) error {
	var req validation.User
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	hash, err := utils.HashPassword(req.Password, h.bcryptCost())
	if err != nil {
		return internalError(c, "hash password failed", err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u := &model.User{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Username:     strings.TrimSpace(req.Username),
		About:        req.About,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    req.AvatarURL,
		Role:         model.RoleUser,
	}
	id, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return message(c, http.StatusConflict, "Username or email already exists")
		}
		return internalError(c, "create user failed", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully", "id": id})
}

// RegisterStaff consumes a one-time signup code and creates a staff account
// with the role the code was generated for.  Locking the code, inserting
// the user and marking the code used happen in one transaction.
func (h *AuthHandler) RegisterStaff(c echo.Context) error {
	var req validation.StaffRegister
	if err := validation.BindStrict(c, &req); err != nil {
		return validation.Respond(c, err)
	}
	code := strings.TrimSpace(req.SignupCode)
	if code == "" {
		return message(c, http.StatusBadRequest, "Sign-up code is required for staff registration")
	}
	hash, err := utils.HashPassword(req.Password, h.bcryptCost())
	if err != nil {
		return internalError(c, "hash password failed", err)
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	u := &model.User{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Username:     strings.TrimSpace(req.Username),
		About:        req.About,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    req.AvatarURL,
	}
	err = database.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		sc, err := h.Codes.LockUnusedTx(ctx, tx, code)
		if err != nil {
			return err
		}
		u.Role = sc.GeneratedFor
		if !model.ValidRole(u.Role) {
			u.Role = model.RoleOperator
		}
		if _, err := h.Users.CreateTx(ctx, tx, u); err != nil {
			return err
		}
		return h.Codes.MarkUsedTx(ctx, tx, sc.ID)
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrSignupCodeInvalid):
		return message(c, http.StatusForbidden, "Invalid or already used sign-up code")
	case errors.Is(err, repository.ErrDuplicate):
		return message(c, http.StatusConflict, "Username or email already exists")
	default:
		return internalError(c, "staff registration failed", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Staff account registered successfully",
		"id":      u.ID,
		"role":    u.Role,
	})
}

// Role returns the caller's current role as stored, which may differ from
// the role claim if an admin changed it after the token was issued.
func (h *AuthHandler) Role(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	role, err := h.Users.RoleByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "User not found or role not assigned")
		}
		return internalError(c, "role lookup failed", err)
	}
	if role == "" {
		return message(c, http.StatusNotFound, "User not found or role not assigned")
	}
	return c.JSON(http.StatusOK, echo.Map{"role": role})
}
