package middleware // reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/utils"
)

// Context keys set by Auth for downstream handlers.
const (
	CallerKey = "caller"  // utils.Claims of the authenticated user
	UserIDKey = "user_id" // string id, convenience accessor
)

// Auth returns an Echo middleware that validates a Bearer access token and
// injects the decoded claims into the request context. The gate never
// touches the store: claims are trusted as of issuance time. A missing or
// malformed header and a bad signature/expired token both resolve to 401,
// with distinct messages.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "unauthenticated",
					"message": "missing bearer token",
				})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "unauthenticated",
					"message": "invalid token",
				})
			}

			c.Set(CallerKey, claims)
			c.Set(UserIDKey, claims.UserID())
			return next(c)
		}
	}
}

// Caller extracts the authenticated claims placed by Auth. The boolean is
// false on routes that did not pass through the gate.
func Caller(c echo.Context) (utils.Claims, bool) {
	claims, ok := c.Get(CallerKey).(utils.Claims)
	return claims, ok
}
