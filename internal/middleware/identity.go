package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// AdminID returns the authenticated admin's id, if any.
func AdminID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxAdminID).(uint64)
	return id, ok && id > 0
}

// callerID names the caller in rate limit keys: the admin id after
// JWTAuth, "anon" for the public.
func callerID(c echo.Context) string {
	if id, ok := AdminID(c); ok {
		return "admin" + strconv.FormatUint(id, 10)
	}
	return "anon"
}

// passthrough is installed when a Redis-backed middleware is disabled.
func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
