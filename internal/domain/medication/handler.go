package medication

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dripwatch/dripwatch/pkg/pagination"
)

// Defaults applied when an ESP32 starts a bag without details.
const (
	deviceDefaultLabel  = "Soro Fisiológico 500ml"
	deviceDefaultVolume = 500
	deviceDefaultFlow   = 125
	deviceDefaultNotes  = "Iniciado via ESP32"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medication-applications", h.ListApplications)
	api.POST("/medication-applications", h.CreateApplication)
	api.PUT("/medication-applications/finish/bed/:bed_id", h.FinishByBed)
	api.GET("/medication-applications/:id", h.GetApplication)
	api.PUT("/medication-applications/:id", h.UpdateApplication)
	api.DELETE("/medication-applications/:id", h.DeleteApplication)
	api.POST("/beds/:id/start-medication", h.StartByBed)
}

// RegisterDeviceRoutes mounts the unauthenticated ESP32 endpoints.
func (h *Handler) RegisterDeviceRoutes(bedExt, medExt *echo.Group) {
	bedExt.POST("/:id/start-medication", h.DeviceStartMedication)
	medExt.PUT("/finish/bed/:bed_id", h.FinishByBed)
}

type startRequest struct {
	PatientID       *uuid.UUID `json:"patient_id"`
	MedicationID    *uuid.UUID `json:"medication_id"`
	AppliedBy       *uuid.UUID `json:"applied_by"`
	MedicationLabel *string    `json:"current_medication_label"`
	VolumeML        *float64   `json:"volume_ml"`
	DosageMG        *float64   `json:"dosage_mg"`
	FlowMLH         *float64   `json:"flow_ml_h"`
	InitialWeightG  *float64   `json:"initial_weight_g"`
	Notes           *string    `json:"notes"`
}

func (h *Handler) StartByBed(c echo.Context) error {
	bedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bed id")
	}
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := StartParams{
		PatientID:    req.PatientID,
		MedicationID: req.MedicationID,
		AppliedBy:    req.AppliedBy,
	}
	if req.MedicationLabel != nil {
		p.MedicationLabel = *req.MedicationLabel
	}
	if req.VolumeML != nil {
		p.VolumeML = *req.VolumeML
	}
	if req.DosageMG != nil {
		p.DosageMG = *req.DosageMG
	}
	if req.FlowMLH != nil {
		p.FlowMLH = *req.FlowMLH
	}
	if req.InitialWeightG != nil {
		p.InitialWeightG = *req.InitialWeightG
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	b, err := h.svc.StartByBed(c.Request().Context(), bedID, p)
	if err != nil {
		if errors.Is(err, ErrBedOccupied) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

// DeviceStartMedication is StartByBed with the ESP32 defaults filled in.
// Occupied beds come back as 400 here because the firmware only distinguishes
// ok from not-ok.
func (h *Handler) DeviceStartMedication(c echo.Context) error {
	bedID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bed id")
	}
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := StartParams{
		PatientID:       req.PatientID,
		MedicationID:    req.MedicationID,
		AppliedBy:       req.AppliedBy,
		MedicationLabel: deviceDefaultLabel,
		VolumeML:        deviceDefaultVolume,
		FlowMLH:         deviceDefaultFlow,
		Notes:           deviceDefaultNotes,
	}
	if req.MedicationLabel != nil {
		p.MedicationLabel = *req.MedicationLabel
	}
	if req.VolumeML != nil {
		p.VolumeML = *req.VolumeML
	}
	if req.DosageMG != nil {
		p.DosageMG = *req.DosageMG
	}
	if req.FlowMLH != nil {
		p.FlowMLH = *req.FlowMLH
	}
	if req.InitialWeightG != nil {
		p.InitialWeightG = *req.InitialWeightG
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	b, err := h.svc.StartByBed(c.Request().Context(), bedID, p)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "medication started",
		"bed":     b,
	})
}

func (h *Handler) FinishByBed(c echo.Context) error {
	bedID, err := uuid.Parse(c.Param("bed_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
	}
	result, err := h.svc.FinishByBed(c.Request().Context(), bedID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) CreateApplication(c echo.Context) error {
	var app Application
	if err := c.Bind(&app); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &app); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, app)
}

func (h *Handler) GetApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	app, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "application not found")
	}
	return c.JSON(http.StatusOK, app)
}

func (h *Handler) ListApplications(c echo.Context) error {
	pg := pagination.FromContext(c)

	var filter ListFilter
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		filter.PatientID = &id
	}
	if raw := c.QueryParam("bed_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid bed_id")
		}
		filter.BedID = &id
	}
	if raw := c.QueryParam("applied_by"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid applied_by")
		}
		filter.AppliedBy = &id
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = &status
	}

	apps, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(apps, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		EstimatedEndTime *time.Time `json:"estimated_end_time"`
		ActualEndTime    *time.Time `json:"actual_end_time"`
		Status           *string    `json:"status"`
		Notes            *string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	app, err := h.svc.Update(c.Request().Context(), id, req.EstimatedEndTime, req.ActualEndTime, req.Status, req.Notes)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, app)
}

func (h *Handler) DeleteApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
