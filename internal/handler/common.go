package handler // handler defines http handlers

import (
    "context"  // request-scoped deadlines for DB calls
    "errors"   // errors provides sentinel values used in getUserID
    "net/http" // status codes
    "strconv"  // strconv converts strings to numeric types
    "time"     // timeouts

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/hotel-booking-api/internal/logger"     // request-scoped structured logging
    "github.com/iliyamo/hotel-booking-api/internal/middleware" // context keys set by RequireAuth
)

// dbTimeout bounds every handler's database work.
const dbTimeout = 5 * time.Second

// dbContext derives a bounded context from the request.
func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get(middleware.CtxUserID).(type) {
    case uint64:
        if t != 0 {
            return t, nil
        }
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil && n != 0 {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim of the verified token.
func getRole(c echo.Context) string {
    r, _ := c.Get(middleware.CtxRole).(string)
    return r
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// message writes the standard {message} envelope.
func message(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"message": msg})
}

// internalError logs err with request context and answers 500 without
// exposing it.
func internalError(c echo.Context, what string, err error) error {
    logger.FromEcho(c).Error(what, "error", err)
    return message(c, http.StatusInternalServerError, "Internal server error")
}

// unauthenticated is returned when a protected handler runs without an
// identity, which only happens when a route is wired without RequireAuth.
func unauthenticated(c echo.Context) error {
    return message(c, http.StatusUnauthorized, "Token required")
}
