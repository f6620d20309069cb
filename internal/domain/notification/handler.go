package notification

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dripwatch/dripwatch/pkg/pagination"
)

type Handler struct {
	svc       *Service
	retention time.Duration
}

func NewHandler(svc *Service, retention time.Duration) *Handler {
	return &Handler{svc: svc, retention: retention}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/:id", h.GetNotification)
	api.PATCH("/notifications/:id/read", h.MarkRead)
	api.DELETE("/notifications/cleanup", h.Cleanup)
	api.DELETE("/notifications/:id", h.DeleteNotification)
}

func (h *Handler) ListNotifications(c echo.Context) error {
	pg := pagination.FromContext(c)

	var filter ListFilter
	if readParam := c.QueryParam("read"); readParam != "" {
		read, err := strconv.ParseBool(readParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid read filter")
		}
		filter.Read = &read
	}
	if bedParam := c.QueryParam("bed_id"); bedParam != "" {
		bedID, err := uuid.Parse(bedParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
		}
		filter.BedID = &bedID
	}

	notifs, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(notifs, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.svc.MarkRead(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Cleanup(c echo.Context) error {
	removed, err := h.svc.Cleanup(c.Request().Context(), h.retention)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"removed": removed})
}
