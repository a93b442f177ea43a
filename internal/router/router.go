package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/config"
	"github.com/iliyamo/study-room-reservation/internal/handler"
	"github.com/iliyamo/study-room-reservation/internal/middleware"
)

// roomsCacheGroup names the cached GET /api/rooms responses.
const roomsCacheGroup = "rooms"

// Deps carries everything the routes need.  Redis may be nil, in which case
// rate limiting and response caching are switched off.
type Deps struct {
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Rooms        *handler.RoomHandler
	Health       echo.HandlerFunc

	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
}

// RegisterRoutes maps the HTTP API onto e.  Admin-only routes pass through
// RequireAdmin before any body is read.  Authenticate must already be
// installed on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	// health check for load balancers
	e.GET("/healthz", d.Health)

	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	cacheRooms := middleware.NewRedisCache(d.Cache, d.Redis, roomsCacheGroup, d.Log)
	invalidateRooms := middleware.InvalidateOnSuccess(d.Cache, d.Redis, roomsCacheGroup, d.Log)
	admin := middleware.RequireAdmin()

	api := e.Group("/api")

	api.POST("/register", d.Auth.Register, limit)
	api.POST("/login", d.Auth.Login, limit)
	api.POST("/logout", d.Auth.Logout)
	api.GET("/user", d.Auth.Me)

	api.POST("/reserve", d.Reservations.Create, limit)
	api.DELETE("/reserve/:id", d.Reservations.Delete, admin)
	api.GET("/reservations", d.Reservations.List, admin)
	api.GET("/reservations/summary", d.Reservations.Summary, admin)
	api.GET("/rooms/:roomNumber/stats", d.Reservations.RoomStats)

	api.GET("/rooms", d.Rooms.List, cacheRooms)
	api.POST("/rooms", d.Rooms.Create, admin, invalidateRooms)
	api.PUT("/rooms/:roomNumber", d.Rooms.Update, admin, invalidateRooms)
	api.DELETE("/rooms/:roomNumber", d.Rooms.Delete, admin, invalidateRooms)
}
