package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/middleware"
	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/service"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// AdminHandler bundles the admin endpoints.  DefaultTempleID is used by
// the dashboard when the caller names no temple.
type AdminHandler struct {
	Svc             *service.AdminService
	DefaultTempleID uint64
}

func NewAdminHandler(svc *service.AdminService, defaultTempleID uint64) *AdminHandler {
	if svc == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Svc: svc, DefaultTempleID: defaultTempleID}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login: exchange username and password for an access token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return writeError(c, "admin", "login", repository.Invalid("username", "username and password are required"))
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return writeError(c, "admin", "login", err)
	}
	utils.LogEvent(requestID(c), "admin", "login", "user="+res.Username)
	return c.JSON(http.StatusOK, res)
}

// Dashboard handles GET /v1/admin/dashboard?temple_id=.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	templeID := h.DefaultTempleID
	if s := c.QueryParam("temple_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return writeError(c, "admin", "dashboard", repository.Invalid("temple_id", "must be a positive integer"))
		}
		templeID = id
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	d, err := h.Svc.Dashboard(ctx, templeID)
	if err != nil {
		return writeError(c, "admin", "dashboard", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) Overview(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	o, err := h.Svc.Overview(ctx)
	if err != nil {
		return writeError(c, "admin", "overview", err)
	}
	return c.JSON(http.StatusOK, o)
}

// search runs one of the admin searches and wraps the rows in {"items"}.
func search[T any](c echo.Context, action string, run func(context.Context, model.SearchFilter) ([]T, error)) error {
	f, err := searchFilter(c)
	if err != nil {
		return writeError(c, "admin", action, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := run(ctx, f)
	if err != nil {
		return writeError(c, "admin", action, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *AdminHandler) SearchVisitors(c echo.Context) error {
	return search(c, "search_visitors", h.Svc.SearchVisitors)
}

func (h *AdminHandler) SearchBookings(c echo.Context) error {
	return search(c, "search_bookings", h.Svc.SearchBookings)
}

func (h *AdminHandler) SearchDonations(c echo.Context) error {
	return search(c, "search_donations", h.Svc.SearchDonations)
}

func (h *AdminHandler) SearchPujas(c echo.Context) error {
	return search(c, "search_pujas", h.Svc.SearchPujas)
}

func (h *AdminHandler) SearchOrders(c echo.Context) error {
	return search(c, "search_orders", h.Svc.SearchOrders)
}

// remove deletes one record by path id and answers 204.
func (h *AdminHandler) remove(c echo.Context, action string, del func(context.Context, uint64) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "admin", action, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := del(ctx, id); err != nil {
		return writeError(c, "admin", action, err)
	}
	h.audit(c, action, fmt.Sprintf("id=%d", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DeleteDonation(c echo.Context) error {
	return h.remove(c, "delete_donation", h.Svc.DeleteDonation)
}

func (h *AdminHandler) DeletePuja(c echo.Context) error {
	return h.remove(c, "delete_puja", h.Svc.DeletePuja)
}

func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	return h.remove(c, "delete_order", h.Svc.DeleteOrder)
}

// DeleteBooking removes a booking and reports how many slots went back
// to its schedule.
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "admin", "delete_booking", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	restored, err := h.Svc.DeleteBooking(ctx, id)
	if err != nil {
		return writeError(c, "admin", "delete_booking", err)
	}
	h.audit(c, "delete_booking", fmt.Sprintf("id=%d restored=%d", id, restored))
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "slots_restored": restored})
}

func (h *AdminHandler) CancelBooking(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "admin", "cancel_booking", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	b, err := h.Svc.CancelBooking(ctx, id)
	if err != nil {
		return writeError(c, "admin", "cancel_booking", err)
	}
	h.audit(c, "cancel_booking", fmt.Sprintf("id=%d", id))
	return c.JSON(http.StatusOK, b)
}

// DeleteVisitor handles DELETE /v1/admin/visitors/:id?cascade=true.
// Without cascade a visitor that still has records is refused with 409.
func (h *AdminHandler) DeleteVisitor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "admin", "delete_visitor", err)
	}
	cascade := false
	if s := c.QueryParam("cascade"); s != "" {
		cascade, err = strconv.ParseBool(s)
		if err != nil {
			return writeError(c, "admin", "delete_visitor", repository.Invalid("cascade", "must be true or false"))
		}
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Svc.DeleteVisitor(ctx, id, cascade)
	if err != nil {
		return writeError(c, "admin", "delete_visitor", err)
	}
	h.audit(c, "delete_visitor", fmt.Sprintf("id=%d cascade=%t", id, cascade))
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) audit(c echo.Context, action, msg string) {
	if adminID, ok := middleware.AdminID(c); ok {
		msg = fmt.Sprintf("admin_id=%d %s", adminID, msg)
	}
	utils.LogEvent(requestID(c), "admin", action, msg)
}
