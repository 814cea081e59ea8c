package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/service"
)

// CatalogHandler serves the public, read-only catalog.  These routes sit
// behind the response cache, except schedules whose slot counts change
// with every booking.
type CatalogHandler struct {
	Svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	if svc == nil {
		panic("nil service passed to NewCatalogHandler")
	}
	return &CatalogHandler{Svc: svc}
}

// ListTemples handles GET /v1/temples.
func (h *CatalogHandler) ListTemples(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	temples, err := h.Svc.Temples(ctx)
	if err != nil {
		return writeError(c, "catalog", "list_temples", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": temples})
}

// GetTemple handles GET /v1/temples/:id.
func (h *CatalogHandler) GetTemple(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "catalog", "get_temple", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.Svc.Temple(ctx, id)
	if err != nil {
		return writeError(c, "catalog", "get_temple", err)
	}
	return c.JSON(http.StatusOK, t)
}

// listByTemple runs a per-temple list call for the :id path parameter
// and writes {"items": [...]}.
func listByTemple[T any](c echo.Context, action string, list func(context.Context, uint64) ([]T, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "catalog", action, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := list(ctx, id)
	if err != nil {
		return writeError(c, "catalog", action, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DarshanTypes handles GET /v1/temples/:id/darshan-types.
func (h *CatalogHandler) DarshanTypes(c echo.Context) error {
	return listByTemple(c, "darshan_types", h.Svc.DarshanTypes)
}

// Schedules handles GET /v1/temples/:id/schedules?date=YYYY-MM-DD.
func (h *CatalogHandler) Schedules(c echo.Context) error {
	date := c.QueryParam("date")
	return listByTemple(c, "schedules", func(ctx context.Context, id uint64) ([]model.Schedule, error) {
		return h.Svc.Schedules(ctx, id, date)
	})
}

// Festivals handles GET /v1/temples/:id/festivals.
func (h *CatalogHandler) Festivals(c echo.Context) error {
	return listByTemple(c, "festivals", h.Svc.Festivals)
}

// DonationTypes handles GET /v1/temples/:id/donation-types.
func (h *CatalogHandler) DonationTypes(c echo.Context) error {
	return listByTemple(c, "donation_types", h.Svc.DonationTypes)
}

// PujaTypes handles GET /v1/temples/:id/puja-types.
func (h *CatalogHandler) PujaTypes(c echo.Context) error {
	return listByTemple(c, "puja_types", h.Svc.PujaTypes)
}

// PrasadamTypes handles GET /v1/temples/:id/prasadam-types.
func (h *CatalogHandler) PrasadamTypes(c echo.Context) error {
	return listByTemple(c, "prasadam_types", h.Svc.PrasadamTypes)
}

// GetSchedule handles GET /v1/schedules/:id.
func (h *CatalogHandler) GetSchedule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "catalog", "get_schedule", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	s, err := h.Svc.Schedule(ctx, id)
	if err != nil {
		return writeError(c, "catalog", "get_schedule", err)
	}
	return c.JSON(http.StatusOK, s)
}
