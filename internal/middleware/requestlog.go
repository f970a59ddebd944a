package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-api/internal/logger"
)

// RequestID keeps an incoming X-Request-ID or assigns a new one, echoes it in
// the response and stores it for logger.FromEcho.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = logger.NewRequestID()
			}
			c.Set(logger.RequestIDKey, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// AccessLog writes one structured line per request.  Server errors are
// logged at error level, client errors at warn.
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			status := c.Response().Status
			fields := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"route", c.Path(),
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"client_ip", c.RealIP(),
			}
			l := logger.FromEcho(c)
			switch {
			case status >= 500:
				if err != nil {
					fields = append(fields, "error", err.Error())
				}
				l.Error("request failed", fields...)
			case status >= 400:
				l.Warn("request rejected", fields...)
			default:
				l.Info("request completed", fields...)
			}
			return nil
		}
	}
}
