package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/service"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// BookingHandler exposes the darshan booking transaction.
type BookingHandler struct {
	Bookings *service.BookingService
	Visitors *service.VisitorService
}

func NewBookingHandler(bookings *service.BookingService, visitors *service.VisitorService) *BookingHandler {
	if bookings == nil || visitors == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Visitors: visitors}
}

type bookReq struct {
	visitorRef
	ScheduleID          uint64  `json:"schedule_id"`
	NumberOfPeople      int     `json:"number_of_people"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`
}

// Book handles POST /v1/darshan-bookings.  It answers 201 with the
// receipt, 409 when the schedule has too few slots left and 404 for an
// unknown schedule or visitor.
func (h *BookingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	visitorID, err := req.resolve(ctx, h.Visitors)
	if err != nil {
		return writeError(c, "booking", "book", err)
	}
	receipt, err := h.Bookings.BookDarshan(ctx, service.BookDarshanRequest{
		ScheduleID:          req.ScheduleID,
		VisitorID:           visitorID,
		NumberOfPeople:      req.NumberOfPeople,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		return writeError(c, "booking", "book", err)
	}
	utils.LogEvent(requestID(c), "booking", "book",
		fmt.Sprintf("booking_id=%d schedule_id=%d people=%d", receipt.BookingID, receipt.ScheduleID, receipt.NumberOfPeople))
	return c.JSON(http.StatusCreated, receipt)
}

// Get handles GET /v1/darshan-bookings/:id?phone=.  The phone must
// match the booking visitor's number.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "booking", "get", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	d, err := h.Bookings.Get(ctx, id, c.QueryParam("phone"))
	if err != nil {
		return writeError(c, "booking", "get", err)
	}
	return c.JSON(http.StatusOK, d)
}

// Receipt handles GET /v1/darshan-bookings/:id/receipt.pdf?phone=.
func (h *BookingHandler) Receipt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "booking", "receipt", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	pdf, err := h.Bookings.ReceiptPDF(ctx, id, c.QueryParam("phone"))
	if err != nil {
		return writeError(c, "booking", "receipt", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`inline; filename="darshan-booking-`+strconv.FormatUint(id, 10)+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
