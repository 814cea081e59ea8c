// Package router registers the HTTP routes of the temple visitor
// service on an Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/handler"
)

// Handlers groups everything Register needs.  Cache and RateLimit are
// the Redis-backed middlewares; either may be a passthrough.
type Handlers struct {
	DB        *sql.DB
	Catalog   *handler.CatalogHandler
	Visitors  *handler.VisitorHandler
	Bookings  *handler.BookingHandler
	Offerings *handler.OfferingHandler
	Admin     *handler.AdminHandler
	JWTSecret string
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register mounts the health check, the public API and the admin API.
func Register(e *echo.Echo, h Handlers) {
	if h.Cache == nil {
		h.Cache = noop
	}
	if h.RateLimit == nil {
		h.RateLimit = noop
	}
	e.GET("/healthz", handler.Health(h.DB))
	registerPublic(e, h)
	registerAdmin(e, h)
}

func noop(next echo.HandlerFunc) echo.HandlerFunc { return next }
