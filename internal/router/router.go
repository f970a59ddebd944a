package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql" // readiness probe pings the pool

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking-api/internal/config"
	"github.com/iliyamo/hotel-booking-api/internal/handler"    // handlers that implement each endpoint
	"github.com/iliyamo/hotel-booking-api/internal/metrics"
	"github.com/iliyamo/hotel-booking-api/internal/middleware" // JWT authentication, role gate, cache, rate limit
	"github.com/iliyamo/hotel-booking-api/internal/model"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Profile    *handler.ProfileHandler
	Hotels     *handler.HotelHandler
	Bookings   *handler.BookingHandler
	Favourites *handler.FavouriteHandler
	Messages   *handler.MessageHandler
	Uploads    *handler.UploadHandler
}

// Options carries what the route middleware needs.  Redis may be nil, in
// which case caching and rate limiting are pass-throughs.
type Options struct {
	JWTSecret string
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	DB        *sql.DB
	Metrics   *metrics.Metrics
}

// RegisterRoutes registers routes that live outside /api/v1: probes,
// metrics and public images.
func RegisterRoutes(e *echo.Echo, h Handlers, o Options) {
	e.GET("/healthz", handler.Health)
	if o.DB != nil {
		e.GET("/readyz", handler.Ready(o.DB))
	}
	if o.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(o.Metrics.Handler()))
	}
	e.GET("/images/:filename", h.Uploads.ServeImage)
}

// RegisterAPI mounts every versioned endpoint under /api/v1.
func RegisterAPI(e *echo.Echo, h Handlers, o Options) {
	auth := middleware.RequireAuth(o.JWTSecret)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleOperator)
	admin := middleware.RequireRole(model.RoleAdmin)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleOperator, model.RoleUser)
	limited := middleware.NewTokenBucket(o.RateLimit, o.Redis)
	cached := middleware.NewRedisCache(o.Cache, o.Redis)

	api := e.Group("/api/v1")
	api.GET("/images/:filename", h.Uploads.ServeImage)

	// users: credentials endpoints are rate limited per IP and route
	users := api.Group("/users")
	users.POST("/login", h.Auth.Login, limited)
	users.POST("/public/register", h.Auth.RegisterPublic, limited)
	users.POST("/staff/register", h.Auth.RegisterStaff, limited)
	users.GET("/public/role", h.Auth.Role, auth)
	users.GET("/profile", h.Profile.Get, auth)
	users.PUT("/profile", h.Profile.Update, auth)
	users.GET("/profile/:id", h.Profile.GetByID, auth, staff)
	users.PUT("/profile/:id", h.Profile.Update, auth)
	users.GET("/list", h.Profile.List, auth, admin)
	users.GET("/booking/:id", h.Profile.BookingUser, auth, staff)
	users.DELETE("/:id", h.Profile.Delete, auth, admin)
	users.POST("/upload-avatar", h.Uploads.UploadAvatar, auth)

	// hotels: catalogue reads are cached; bookings live under the same prefix
	hotels := api.Group("/hotels")
	hotels.GET("", h.Hotels.List, cached)
	hotels.POST("/search", h.Hotels.Search)
	hotels.GET("/:id", h.Hotels.Get, cached)
	hotels.GET("/:id/rooms", h.Hotels.Rooms, cached)
	hotels.POST("/bookings", h.Bookings.Create, auth)
	hotels.GET("/private/bookings", h.Bookings.List, auth, anyRole)
	hotels.POST("/update/bookings", h.Bookings.Update, auth, staff)

	favs := api.Group("/favs", auth)
	favs.POST("/add", h.Favourites.Add)
	favs.POST("/delete", h.Favourites.Delete)
	favs.DELETE("/delete", h.Favourites.Delete)
	favs.GET("/list", h.Favourites.List)

	msgs := api.Group("/msgs", auth)
	msgs.POST("/bookings", h.Messages.Latest)
}
