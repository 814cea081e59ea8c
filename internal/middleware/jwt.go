// Package middleware holds the echo middleware of the temple service:
// admin authentication, role checks, the Redis token bucket and the
// Redis response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ctxAdminID = "admin_id"
	ctxRole    = "role"
)

// JWTAuth validates a Bearer access token and stores the admin id
// (uint64) and role in the echo context for RequireRole and handlers.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ctxAdminID, claims.Subject)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}
