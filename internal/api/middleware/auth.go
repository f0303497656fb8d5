package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lexcrm/crm-system/internal/core/service"
)

// CallerKey is the echo context key holding the authenticated domain.Caller.
const CallerKey = "caller"

// Auth verifies the bearer token once per request and injects the typed
// caller identity into the context. A missing Authorization header and an
// invalid token are distinct failures: the first means the client must log in,
// the second means the token is expired or tampered with.
func Auth(tokens *service.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			caller, err := claims.Caller()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CallerKey, caller)
			return next(c)
		}
	}
}
