package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/middleware"
	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// registerAdmin mounts /v1/admin.  Login is rate limited but open; every
// other route requires an admin access token.
func registerAdmin(e *echo.Echo, h Handlers) {
	e.POST("/v1/admin/login", h.Admin.Login, h.RateLimit)

	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(h.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
		h.RateLimit,
	)
	g.GET("/dashboard", h.Admin.Dashboard)
	g.GET("/overview", h.Admin.Overview)

	g.GET("/visitors", h.Admin.SearchVisitors)
	g.GET("/darshan-bookings", h.Admin.SearchBookings)
	g.GET("/donations", h.Admin.SearchDonations)
	g.GET("/virtual-pujas", h.Admin.SearchPujas)
	g.GET("/prasadam-orders", h.Admin.SearchOrders)

	g.DELETE("/visitors/:id", h.Admin.DeleteVisitor)
	g.DELETE("/darshan-bookings/:id", h.Admin.DeleteBooking)
	g.POST("/darshan-bookings/:id/cancel", h.Admin.CancelBooking)
	g.DELETE("/donations/:id", h.Admin.DeleteDonation)
	g.DELETE("/virtual-pujas/:id", h.Admin.DeletePuja)
	g.DELETE("/prasadam-orders/:id", h.Admin.DeleteOrder)
}
