package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

// UserHandler handles profile access and the public user listing.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Profile handles GET /profile.
//
// @Summary      Own profile fields
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{Success: true, User: user})
}

// UpdateProfile handles POST /profile. Only the caller's own record is
// touched, and only the four editable fields.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /profile [post]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), caller.ID, domain.Profile{
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{Success: true, User: user})
}

// ListByRole handles GET /users?role=.
//
// @Summary      List users by role
// @Tags         users
// @Produce      json
// @Param        role  query     string  true  "client, specialist or admin"
// @Success      200   {object}  userListResponse
// @Failure      400   {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) ListByRole(c echo.Context) error {
	role := domain.Role(c.QueryParam("role"))

	users, err := h.service.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}

	return c.JSON(http.StatusOK, userListResponse{Success: true, Users: users})
}

// CatalogHandler lists the offered services.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List handles GET /services?type=.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Param        type  query     string  false  "Optional service type filter"
// @Success      200   {object}  serviceListResponse
// @Router       /services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	services, err := h.service.List(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return err
	}
	if services == nil {
		services = []*domain.ServiceEntry{}
	}

	return c.JSON(http.StatusOK, serviceListResponse{Success: true, Services: services})
}
