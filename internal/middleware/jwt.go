package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/hotel-booking-api/internal/utils" // token verification
)

// Context keys populated by RequireAuth.
const (
    CtxUser     = "user"     // utils.Payload
    CtxUserID   = "user_id"  // uint64
    CtxRole     = "role"     // string
    CtxUsername = "username" // string
)

// RequireAuth returns an Echo middleware that validates a Bearer access
// token and stores the decoded payload in the request context.  A missing
// or malformed header yields 401; a token that fails verification (bad
// signature, wrong algorithm, expired) yields 403.
func RequireAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token required"})
            }

            p, err := utils.VerifyToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid or expired token"})
            }

            c.Set(CtxUser, p)
            c.Set(CtxUserID, p.ID)
            c.Set(CtxRole, p.Role)
            c.Set(CtxUsername, p.Username)
            return next(c)
        }
    }
}

// bearerToken extracts <token> from "Bearer <token>".
func bearerToken(h string) (string, bool) {
    const prefix = "Bearer "
    if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
        return "", false
    }
    tok := strings.TrimSpace(h[len(prefix):])
    return tok, tok != ""
}
