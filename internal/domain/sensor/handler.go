package sensor

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
	api.GET("/sensors", h.ListSensors)
	api.POST("/sensors", h.CreateSensor)
	api.POST("/sensors/heartbeat", h.Heartbeat)
	api.GET("/sensors/:id", h.GetSensor)
	api.PUT("/sensors/:id", h.UpdateSensor)
	api.DELETE("/sensors/:id", h.DeleteSensor)
}

func (h *Handler) CreateSensor(c echo.Context) error {
	var s Sensor
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) GetSensor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	s, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "sensor not found")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ListSensors(c echo.Context) error {
	var f ListFilter
	if v := c.QueryParam("bed_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
		}
		f.BedID = &id
	}
	if v := c.QueryParam("status"); v != "" {
		f.Status = &v
	}
	pg := pagination.FromContext(c)
	sensors, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(sensors, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateSensor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var s Sensor
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.ID = id
	if err := h.svc.Update(c.Request().Context(), &s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteSensor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Heartbeat(c echo.Context) error {
	var req struct {
		SerialCode string `json:"serial_code"`
		BatteryPct *int   `json:"battery_pct"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SerialCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "serial_code is required")
	}
	s, err := h.svc.Heartbeat(c.Request().Context(), req.SerialCode, req.BatteryPct)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "sensor not found")
	}
	return c.JSON(http.StatusOK, s)
}
