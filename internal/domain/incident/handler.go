package incident

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dripwatch/dripwatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/incidents", h.ListIncidents)
	api.POST("/incidents", h.CreateIncident)
	api.GET("/incidents/:id", h.GetIncident)
	api.PUT("/incidents/:id", h.UpdateIncident)
	api.DELETE("/incidents/bed/:bed_id", h.ClearByBed)
	api.DELETE("/incidents/:id", h.DeleteIncident)
}

func (h *Handler) CreateIncident(c echo.Context) error {
	var inc Incident
	if err := c.Bind(&inc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &inc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inc)
}

func (h *Handler) GetIncident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "incident not found")
	}
	return c.JSON(http.StatusOK, inc)
}

func (h *Handler) ListIncidents(c echo.Context) error {
	pg := pagination.FromContext(c)

	var filter ListFilter
	if bedParam := c.QueryParam("bed_id"); bedParam != "" {
		bedID, err := uuid.Parse(bedParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
		}
		filter.BedID = &bedID
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}

	incs, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(incs, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateIncident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inc, err := h.svc.Update(c.Request().Context(), id, req.Description, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inc)
}

func (h *Handler) DeleteIncident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearByBed(c echo.Context) error {
	bedID, err := uuid.Parse(c.Param("bed_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
	}
	removed, err := h.svc.ClearByBed(c.Request().Context(), bedID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"removed": removed})
}
