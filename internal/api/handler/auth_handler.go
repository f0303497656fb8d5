package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexcrm/crm-system/internal/api/metrics"
	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Login, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		ID:      user.ID,
		Login:   user.Login,
		Role:    string(user.Role),
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		result := "failure"
		if errors.Is(err, domain.ErrTooManyAttempts) {
			result = "throttled"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Login:   user.Login,
		Token:   token,
		Role:    string(user.Role),
	})
}

// Cabinet greets the caller with the identity decoded from the token.
//
// @Summary      Personal cabinet
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cabinetResponse
// @Failure      401  {object}  map[string]string
// @Router       /cabinet [get]
func (h *AuthHandler) Cabinet(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cabinetResponse{
		Success: true,
		Message: "Welcome, " + caller.Login,
		ID:      caller.ID,
		Login:   caller.Login,
		Role:    string(caller.Role),
	})
}
