// Package router wires HTTP routes to handlers and applies the
// middleware each route group needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-theater-booking/internal/config"
	"github.com/iliyamo/movie-theater-booking/internal/handler"
	"github.com/iliyamo/movie-theater-booking/internal/middleware"
	"github.com/iliyamo/movie-theater-booking/internal/model"
)

// RegisterRoutes registers routes that need no authentication or
// state, currently just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers session endpoints.  Login and refresh live
// under /v1/auth and need no token; /v1/me and /v1/auth/logout accept
// an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works with a refresh token in the body and so does not
	// require the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: the
// movie catalog, theaters and their seats, showtimes and per-showtime
// seat availability.  Responses are cached and rate limited through
// Redis when a client is available.
func RegisterPublic(e *echo.Echo, rdb *redis.Client, m *handler.MovieHandler, t *handler.TheaterHandler, s *handler.ShowtimeHandler, f *handler.SeatFinderHandler) {
	g := e.Group("/v1")
	if rdb != nil {
		g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	g.GET("/movies", m.List)
	g.GET("/movies/:id", m.Get)
	g.GET("/theaters", t.List)
	g.GET("/theaters/:id", t.Get)
	g.GET("/theaters/:id/seats", t.ListSeats)
	g.GET("/showtimes", s.List)
	g.GET("/showtimes/:id", s.Get)
	g.GET("/showtimes/:id/seats/available", f.ListAvailable)
}

// RegisterCustomer registers the booking lifecycle for authenticated
// users.  Both roles may book; ownership checks happen in the service
// layer so admins can act on any booking.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))

	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.ListMine)
	g.GET("/bookings/:id", b.Get)
	g.GET("/bookings/:id/price", b.Price)
	g.PATCH("/bookings/:id/seat", b.Move)
	g.POST("/bookings/:id/confirm", b.Confirm)
	g.POST("/bookings/:id/cancel", b.Cancel)
}

// RegisterAdmin registers management endpoints: catalog and venue
// CRUD, scheduling, and booking administration.
func RegisterAdmin(e *echo.Echo, jwtSecret string, m *handler.MovieHandler, t *handler.TheaterHandler, s *handler.ShowtimeHandler, b *handler.BookingHandler) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/movies", m.Create)
	g.PUT("/movies/:id", m.Update)
	g.DELETE("/movies/:id", m.Delete)

	g.POST("/theaters", t.Create)
	g.PUT("/theaters/:id", t.Update)
	g.DELETE("/theaters/:id", t.Delete)
	g.POST("/theaters/:id/seats", t.AddSeat)
	g.DELETE("/theaters/:id/seats/:seat_id", t.DeleteSeat)

	g.POST("/showtimes", s.Create)
	g.PUT("/showtimes/:id", s.Update)
	g.DELETE("/showtimes/:id", s.Delete)

	g.GET("/bookings", b.ListAll)
	g.DELETE("/bookings/:id", b.Delete)
}
