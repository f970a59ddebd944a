package middleware

// identity.go reads the caller identity that RequireAuth stored in the Echo
// context.  Routes that run without the auth gate see no identity.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking-api/internal/utils"
)

// CurrentUser returns the verified token payload, if any.
func CurrentUser(c echo.Context) (utils.Payload, bool) {
    p, ok := c.Get(CtxUser).(utils.Payload)
    return p, ok && p.ID != 0
}

// currentUserID renders the caller id for rate-limit keys; unauthenticated
// requests share the "anon" bucket.
func currentUserID(c echo.Context) string {
    if p, ok := CurrentUser(c); ok {
        return strconv.FormatUint(p.ID, 10)
    }
    return "anon"
}
