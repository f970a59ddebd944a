package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-booking-api/internal/config"
	"github.com/iliyamo/hotel-booking-api/internal/logger"
	"github.com/iliyamo/hotel-booking-api/internal/metrics"
	"github.com/iliyamo/hotel-booking-api/internal/middleware"
	"github.com/iliyamo/hotel-booking-api/internal/validation"
)

// bodySlack is allowed on top of the avatar limit for multipart framing.
const bodySlack = 1 << 20

// NewEcho builds the Echo instance with the global middleware chain:
// request id, access log, metrics, panic recovery, CORS and a body limit.
func NewEcho(cfg config.Config, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestID(), middleware.AccessLog())
	if m != nil {
		e.Use(middleware.Metrics(m))
	}
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.FromEcho(c).Error("panic recovered", "error", err, "stack", string(stack))
			return err
		},
	}))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	maxBody := cfg.Upload.MaxBytes
	if maxBody <= 0 {
		maxBody = 5 << 20
	}
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dB", maxBody+bodySlack)))
	return e
}

// ErrorHandler renders every error that reaches Echo as {message}.  Client
// errors keep their message; server errors are logged and answered with a
// generic text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < http.StatusInternalServerError {
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		}
	}
	if code >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("unhandled error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"message": msg})
	}
	if err != nil {
		logger.FromEcho(c).Error("write error response failed", "error", err)
	}
}
