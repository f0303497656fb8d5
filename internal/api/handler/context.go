package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexcrm/crm-system/internal/api/middleware"
	"github.com/lexcrm/crm-system/internal/core/domain"
)

// ctxCaller extracts the authenticated caller injected by the Auth middleware.
// Its presence proves the middleware ran; a handler on an authenticated route
// reached without it is a wiring bug, reported as 401 rather than a panic.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	caller, ok := c.Get(middleware.CallerKey).(domain.Caller)
	if !ok || caller.ID == 0 {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return caller, nil
}
