package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/service"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// VisitorHandler handles visitor lookup, registration and history.
type VisitorHandler struct {
	Svc *service.VisitorService
}

func NewVisitorHandler(svc *service.VisitorService) *VisitorHandler {
	if svc == nil {
		panic("nil service passed to NewVisitorHandler")
	}
	return &VisitorHandler{Svc: svc}
}

// Lookup handles GET /v1/visitors/lookup?phone=.
func (h *VisitorHandler) Lookup(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	v, err := h.Svc.FindByPhone(ctx, c.QueryParam("phone"))
	if err != nil {
		return writeError(c, "visitor", "lookup", err)
	}
	return c.JSON(http.StatusOK, v)
}

// Register handles POST /v1/visitors.  A phone number that is already
// registered returns the existing visitor with 200; a new one 201.
func (h *VisitorHandler) Register(c echo.Context) error {
	var in model.VisitorInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	v, created, err := h.Svc.Resolve(ctx, in)
	if err != nil {
		return writeError(c, "visitor", "register", err)
	}
	if !created {
		return c.JSON(http.StatusOK, v)
	}
	utils.LogEvent(requestID(c), "visitor", "register", "visitor_id="+strconv.FormatUint(v.ID, 10))
	return c.JSON(http.StatusCreated, v)
}

// History handles GET /v1/visitors/:id/history?phone=.  The phone must
// match the visitor's registered number.
func (h *VisitorHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, "visitor", "history", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	hist, err := h.Svc.History(ctx, id, c.QueryParam("phone"))
	if err != nil {
		return writeError(c, "visitor", "history", err)
	}
	return c.JSON(http.StatusOK, hist)
}

// visitorRef lets write endpoints name the visitor either by id or by
// registration details; the latter is resolved by phone, registering the
// visitor when unknown.
type visitorRef struct {
	VisitorID *uint64             `json:"visitor_id,omitempty"`
	Visitor   *model.VisitorInput `json:"visitor,omitempty"`
}

func (r visitorRef) resolve(ctx context.Context, svc *service.VisitorService) (uint64, error) {
	if r.VisitorID != nil && *r.VisitorID > 0 {
		return *r.VisitorID, nil
	}
	if r.Visitor == nil {
		return 0, repository.Invalid("visitor_id", "visitor_id or visitor is required")
	}
	v, _, err := svc.Resolve(ctx, *r.Visitor)
	if err != nil {
		return 0, err
	}
	return v.ID, nil
}
