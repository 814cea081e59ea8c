package router

import "github.com/labstack/echo/v4"

// registerPublic mounts the unauthenticated endpoints under /v1.  Catalog
// reads go through the response cache; schedules are left out of it
// since their remaining slots change with each booking.  Writes and
// visitor lookups are rate limited.
func registerPublic(e *echo.Echo, h Handlers) {
	catalog := e.Group("/v1", h.Cache)
	catalog.GET("/temples", h.Catalog.ListTemples)
	catalog.GET("/temples/:id", h.Catalog.GetTemple)
	catalog.GET("/temples/:id/darshan-types", h.Catalog.DarshanTypes)
	catalog.GET("/temples/:id/festivals", h.Catalog.Festivals)
	catalog.GET("/temples/:id/donation-types", h.Catalog.DonationTypes)
	catalog.GET("/temples/:id/puja-types", h.Catalog.PujaTypes)
	catalog.GET("/temples/:id/prasadam-types", h.Catalog.PrasadamTypes)

	e.GET("/v1/temples/:id/schedules", h.Catalog.Schedules)
	e.GET("/v1/schedules/:id", h.Catalog.GetSchedule)

	g := e.Group("/v1", h.RateLimit)
	g.GET("/visitors/lookup", h.Visitors.Lookup)
	g.POST("/visitors", h.Visitors.Register)
	g.GET("/visitors/:id/history", h.Visitors.History)

	g.POST("/darshan-bookings", h.Bookings.Book)
	g.GET("/darshan-bookings/:id", h.Bookings.Get)
	g.GET("/darshan-bookings/:id/receipt.pdf", h.Bookings.Receipt)

	g.POST("/donations", h.Offerings.Donate)
	g.POST("/virtual-pujas", h.Offerings.BookPuja)
	g.POST("/prasadam-orders", h.Offerings.OrderPrasadam)
}
