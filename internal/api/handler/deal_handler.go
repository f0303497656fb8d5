package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lexcrm/crm-system/internal/api/metrics"
	"github.com/lexcrm/crm-system/internal/core/domain"
	"github.com/lexcrm/crm-system/internal/core/ports"
)

// DealHandler handles HTTP requests for deal operations.
type DealHandler struct {
	service ports.DealService
}

func NewDealHandler(service ports.DealService) *DealHandler {
	return &DealHandler{service: service}
}

func dealID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid deal id")
	}
	return id, nil
}

// List handles GET /deals.
//
// @Summary      List deals visible to the caller, newest first
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dealListResponse
// @Failure      401  {object}  map[string]string
// @Router       /deals [get]
func (h *DealHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	deals, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	if deals == nil {
		deals = []*domain.Deal{}
	}

	return c.JSON(http.StatusOK, dealListResponse{Success: true, Deals: deals})
}

// Create handles POST /deals.
//
// @Summary      Create a deal owned by the caller
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDealRequest  true  "Deal details"
// @Success      201   {object}  dealResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deal, err := h.service.Create(c.Request().Context(), caller, ports.CreateDealInput{
		Title:          req.Title,
		ResponsibleID:  req.ResponsibleID,
		Budget:         req.Budget,
		Comment:        req.Comment,
		ServiceType:    req.ServiceType,
		SpecialistType: req.SpecialistType,
		DesiredDate:    req.DesiredDate,
	})
	if err != nil {
		return err
	}

	serviceType := deal.ServiceType
	if serviceType == "" {
		serviceType = "unspecified"
	}
	metrics.DealsCreatedTotal.WithLabelValues(serviceType).Inc()

	return c.JSON(http.StatusCreated, dealResponse{Success: true, Deal: deal})
}

// Get handles GET /deals/:id.
//
// @Summary      Fetch a deal by id
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Deal id"
// @Success      200  {object}  dealResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /deals/{id} [get]
func (h *DealHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := dealID(c)
	if err != nil {
		return err
	}

	deal, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dealResponse{Success: true, Deal: deal})
}

// Update handles POST /deals/:id.
//
// @Summary      Update general deal fields
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Deal id"
// @Param        body  body      updateDealRequest  true  "Fields to update"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /deals/{id} [post]
func (h *DealHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := dealID(c)
	if err != nil {
		return err
	}

	var req updateDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := ports.DealUpdate{
		Title:          req.Title,
		ResponsibleID:  req.ResponsibleID,
		Budget:         req.Budget,
		Comment:        req.Comment,
		Reason:         req.Reason,
		Lawyer:         req.Lawyer,
		ContractNumber: req.ContractNumber,
		ServiceType:    req.ServiceType,
		SpecialistType: req.SpecialistType,
		DesiredDate:    req.DesiredDate,
		NPS:            req.NPS,
		NPSComment:     req.NPSComment,
	}
	if req.Status != nil {
		status := domain.DealStatus(*req.Status)
		update.Status = &status
	}

	deal, err := h.service.Update(c.Request().Context(), caller, id, update)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dealResponse{Success: true, Deal: deal})
}

// UpdateStage handles POST /deals/:id/stage.
//
// @Summary      Advance a deal's stage
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Deal id"
// @Param        body  body      updateStageRequest  true  "Target stage"
// @Success      200   {object}  dealResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /deals/{id}/stage [post]
func (h *DealHandler) UpdateStage(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := dealID(c)
	if err != nil {
		return err
	}

	var req updateStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deal, err := h.service.UpdateStage(c.Request().Context(), caller, id, domain.DealStage(req.Stage))
	if err != nil {
		return err
	}

	metrics.DealStageChangesTotal.WithLabelValues(string(deal.Stage)).Inc()
	return c.JSON(http.StatusOK, dealResponse{Success: true, Deal: deal})
}
