package middleware

import (
    "net/http"
    "slices"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking-api/internal/logger"
)

// RequireRole admits callers whose token role is one of roles.  It runs
// after RequireAuth; a request without a role claim is denied with 403
// like any other role outside the list.  The role is taken from the token,
// so an admin demotion takes effect when the old token expires.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    roles = slices.Clone(roles)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get(CtxRole).(string)
            if role == "" || !slices.Contains(roles, role) {
                logger.FromEcho(c).Debug("role denied", "role", role, "allowed", roles, "path", c.Path())
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied"})
            }
            return next(c)
        }
    }
}
