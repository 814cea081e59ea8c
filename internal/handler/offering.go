package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/service"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// OfferingHandler records donations, virtual pujas and prasadam orders.
type OfferingHandler struct {
	Donations *service.DonationService
	Pujas     *service.PujaService
	Prasadam  *service.PrasadamService
	Visitors  *service.VisitorService
}

func NewOfferingHandler(d *service.DonationService, p *service.PujaService, pr *service.PrasadamService, v *service.VisitorService) *OfferingHandler {
	if d == nil || p == nil || pr == nil || v == nil {
		panic("nil service passed to NewOfferingHandler")
	}
	return &OfferingHandler{Donations: d, Pujas: p, Prasadam: pr, Visitors: v}
}

type donationReq struct {
	service.DonationRequest
	Visitor *model.VisitorInput `json:"visitor,omitempty"`
}

// Donate handles POST /v1/donations.  Anonymous donations need no
// visitor.
func (h *OfferingHandler) Donate(c echo.Context) error {
	var req donationReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if !req.IsAnonymous && req.VisitorID == nil && req.Visitor != nil {
		id, err := visitorRef{Visitor: req.Visitor}.resolve(ctx, h.Visitors)
		if err != nil {
			return writeError(c, "donation", "donate", err)
		}
		req.VisitorID = &id
	}
	d, err := h.Donations.Donate(ctx, req.DonationRequest)
	if err != nil {
		return writeError(c, "donation", "donate", err)
	}
	utils.LogEvent(requestID(c), "donation", "donate", fmt.Sprintf("donation_id=%d receipt=%s", d.ID, d.ReceiptNumber))
	return c.JSON(http.StatusCreated, d)
}

type pujaReq struct {
	visitorRef
	TempleID       uint64  `json:"temple_id"`
	PujaTypeID     uint64  `json:"puja_type_id"`
	PujaDate       string  `json:"puja_date"`
	PujaTime       string  `json:"puja_time"`
	DevoteeMessage *string `json:"devotee_message,omitempty"`
}

// BookPuja handles POST /v1/virtual-pujas.
func (h *OfferingHandler) BookPuja(c echo.Context) error {
	var req pujaReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	visitorID, err := req.resolve(ctx, h.Visitors)
	if err != nil {
		return writeError(c, "puja", "book", err)
	}
	p, err := h.Pujas.Book(ctx, service.PujaRequest{
		TempleID: req.TempleID, VisitorID: visitorID, PujaTypeID: req.PujaTypeID,
		PujaDate: req.PujaDate, PujaTime: req.PujaTime, DevoteeMessage: req.DevoteeMessage,
	})
	if err != nil {
		return writeError(c, "puja", "book", err)
	}
	utils.LogEvent(requestID(c), "puja", "book", fmt.Sprintf("puja_id=%d receipt=%s", p.ID, p.ReceiptNumber))
	return c.JSON(http.StatusCreated, p)
}

type prasadamReq struct {
	visitorRef
	TempleID        uint64 `json:"temple_id"`
	PrasadamTypeID  uint64 `json:"prasadam_type_id"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shipping_address"`
}

// OrderPrasadam handles POST /v1/prasadam-orders.
func (h *OfferingHandler) OrderPrasadam(c echo.Context) error {
	var req prasadamReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	visitorID, err := req.resolve(ctx, h.Visitors)
	if err != nil {
		return writeError(c, "prasadam", "order", err)
	}
	o, err := h.Prasadam.Order(ctx, service.PrasadamRequest{
		TempleID: req.TempleID, VisitorID: visitorID, PrasadamTypeID: req.PrasadamTypeID,
		Quantity: req.Quantity, ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return writeError(c, "prasadam", "order", err)
	}
	utils.LogEvent(requestID(c), "prasadam", "order", fmt.Sprintf("order_id=%d tracking=%s", o.ID, o.TrackingNumber))
	return c.JSON(http.StatusCreated, o)
}
