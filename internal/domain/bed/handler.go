package bed

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
	"github.com/dripwatch/dripwatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/beds", h.ListBeds)
	api.POST("/beds", h.CreateBed)
	api.GET("/beds/:id", h.GetBed)
	api.PUT("/beds/:id", h.UpdateBed)
	api.DELETE("/beds/:id", h.DeleteBed)
	api.PATCH("/beds/:id/drip-status", h.SetDripStatus)
}

// RegisterDeviceRoutes mounts the unauthenticated ESP32 endpoints.
func (h *Handler) RegisterDeviceRoutes(ext *echo.Group) {
	ext.GET("/:id", h.GetBedDevice)
	ext.PUT("/:id", h.UpdateWeights)
}

func (h *Handler) CreateBed(c echo.Context) error {
	var b Bed
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "bed not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBeds(c echo.Context) error {
	pg := pagination.FromContext(c)

	var filter ListFilter
	if sector := c.QueryParam("sector"); sector != "" {
		filter.Sector = &sector
	}
	if occParam := c.QueryParam("occupied"); occParam != "" {
		occ, err := strconv.ParseBool(occParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid occupied filter")
		}
		filter.Occupied = &occ
	}
	if maintParam := c.QueryParam("under_maintenance"); maintParam != "" {
		maint, err := strconv.ParseBool(maintParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid under_maintenance filter")
		}
		filter.UnderMaintenance = &maint
	}
	if statusParam := c.QueryParam("status_gotejamento"); statusParam != "" {
		status := drip.Status(statusParam)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status_gotejamento filter")
		}
		filter.DripStatus = &status
	}

	beds, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(beds, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Bed
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id

	updated, err := h.svc.Update(c.Request().Context(), &b)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetDripStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Status drip.Status `json:"status_gotejamento"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	b, err := h.svc.SetDripStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

// -- Device endpoints --

func (h *Handler) GetBedDevice(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "bed not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) UpdateWeights(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		InitialWeightG *float64 `json:"initial_weight_g"`
		CurrentWeightG *float64 `json:"current_weight_g"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.InitialWeightG == nil || req.CurrentWeightG == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "initial_weight_g and current_weight_g are required")
	}
	if *req.InitialWeightG < 0 || *req.CurrentWeightG < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "weights must be non-negative")
	}

	b, _, _, err := h.svc.ApplyTelemetry(c.Request().Context(), id,
		*req.InitialWeightG, *req.CurrentWeightG, time.Now().UTC())
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "bed not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}
