// Package handler exposes the HTTP handlers of the temple visitor
// service.  Handlers bind and validate transport input, call a service
// and map its typed errors onto status codes; business rules live in the
// service package.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, repository.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// searchFilter reads ?q=, ?date= and ?limit= for admin searches.
func searchFilter(c echo.Context) (model.SearchFilter, error) {
	f := model.SearchFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Date:  strings.TrimSpace(c.QueryParam("date")),
	}
	if f.Date != "" {
		if _, err := time.Parse("2006-01-02", f.Date); err != nil {
			return f, repository.Invalid("date", "must be YYYY-MM-DD")
		}
	}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return f, repository.Invalid("limit", "must be a positive integer")
		}
		f.Limit = n
	}
	return f, nil
}

// writeError maps the error taxonomy onto HTTP.  Storage and other
// unexpected failures are logged and hidden behind a generic message.
func writeError(c echo.Context, module, action string, err error) error {
	var (
		ve *repository.ValidationError
		ic *repository.InsufficientCapacityError
		ce *repository.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &ic):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "insufficient capacity",
			"requested": ic.Requested,
			"remaining": ic.Remaining,
		})
	case errors.As(err, &ce):
		body := echo.Map{"error": ce.Error()}
		if len(ce.Dependents) > 0 {
			body["dependents"] = ce.Dependents
		}
		return c.JSON(http.StatusConflict, body)
	case errors.Is(err, repository.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, context.DeadlineExceeded):
		utils.LogEvent(requestID(c), module, action, "timeout: "+err.Error())
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request timed out"})
	case errors.Is(err, repository.ErrBookingFailed):
		utils.LogEvent(requestID(c), module, action, err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed, nothing was charged or reserved"})
	}
	utils.LogEvent(requestID(c), module, action, err.Error())
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}
