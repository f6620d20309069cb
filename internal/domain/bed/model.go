package bed

import (
	"time"

	"github.com/google/uuid"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

// Bed maps to the beds table. Weight and timing fields split in two groups:
// the app-declared plan (volume, flow, estimated_end_time) set when an
// infusion starts, and the sensor-derived values (drip_rate_g_s,
// minutes_remaining, estimated_end_time_calculated) refreshed on every
// telemetry reading.
type Bed struct {
	ID               uuid.UUID   `db:"bed_id" json:"id"`
	Code             string      `db:"code" json:"code"`
	Sector           string      `db:"sector" json:"sector"`
	Type             string      `db:"type" json:"type"`
	Occupied         bool        `db:"occupied" json:"occupied"`
	UnderMaintenance bool        `db:"under_maintenance" json:"under_maintenance"`
	DripStatus       drip.Status `db:"status_gotejamento" json:"status_gotejamento"`

	CurrentMedication *string  `db:"current_medication_label" json:"current_medication_label,omitempty"`
	Notes             *string  `db:"notes" json:"notes,omitempty"`
	VolumeML          *float64 `db:"volume_ml" json:"volume_ml,omitempty"`
	DosageMG          *float64 `db:"dosage_mg" json:"dosage_mg,omitempty"`
	FlowMLH           *float64 `db:"flow_ml_h" json:"flow_ml_h,omitempty"`

	InitialWeightG float64 `db:"initial_weight_g" json:"initial_weight_g"`
	CurrentWeightG float64 `db:"current_weight_g" json:"current_weight_g"`

	InfusionStartTime *time.Time `db:"infusion_start_time" json:"infusion_start_time,omitempty"`
	EstimatedEndTime  *time.Time `db:"estimated_end_time" json:"estimated_end_time,omitempty"`

	DripRateGPerSec  *float64   `db:"drip_rate_g_s" json:"drip_rate_g_s,omitempty"`
	MinutesRemaining *int       `db:"minutes_remaining" json:"minutes_remaining,omitempty"`
	EstimatedEndCalc *time.Time `db:"estimated_end_time_calculated" json:"estimated_end_time_calculated,omitempty"`

	IdleTimeSeconds int64      `db:"idle_time_seconds" json:"idle_time_seconds"`
	LastOccupiedAt  *time.Time `db:"last_occupied_at" json:"last_occupied_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// InfusionParams is the bed-side state written when an application starts.
type InfusionParams struct {
	StartedAt      time.Time
	EstimatedEnd   *time.Time
	InitialWeightG float64
	VolumeML       float64
	DosageMG       float64
	FlowMLH        float64
	Notes          string
}

// Telemetry is one weight reading with its derived fields. The derived
// pointers are nil when the estimator had no answer, which clears the
// columns so stale predictions never survive a reading.
type Telemetry struct {
	InitialWeightG   float64
	CurrentWeightG   float64
	Status           drip.Status
	DripRateGPerSec  *float64
	MinutesRemaining *int
	EstimatedEndCalc *time.Time
}
