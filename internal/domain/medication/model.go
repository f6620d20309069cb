package medication

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses.
const (
	StatusInProgress = "em andamento"
	StatusFinished   = "finalizado"
)

// Application maps to the medicacao_aplicada table, the history of every
// infusion. Bed, patient and medication links are all optional: a device can
// start a bag before the patient record is linked.
type Application struct {
	ID               uuid.UUID  `db:"application_id" json:"id"`
	BedID            *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	PatientID        *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	MedicationID     *uuid.UUID `db:"medication_id" json:"medication_id,omitempty"`
	VolumeML         float64    `db:"volume_ml" json:"volume_ml"`
	StartTime        time.Time  `db:"start_time" json:"start_time"`
	EstimatedEndTime *time.Time `db:"estimated_end_time" json:"estimated_end_time,omitempty"`
	ActualEndTime    *time.Time `db:"actual_end_time" json:"actual_end_time,omitempty"`
	AppliedBy        *uuid.UUID `db:"applied_by" json:"applied_by,omitempty"`
	Status           string     `db:"status" json:"status"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`

	// Joined display fields, populated on reads only.
	ApplierName    *string `db:"-" json:"applier_name,omitempty"`
	PatientName    *string `db:"-" json:"patient_name,omitempty"`
	MedicationName *string `db:"-" json:"medication_name,omitempty"`
	BedCode        *string `db:"-" json:"bed_code,omitempty"`
}

// StartParams describes a new infusion started against a bed.
type StartParams struct {
	PatientID       *uuid.UUID
	MedicationID    *uuid.UUID
	AppliedBy       *uuid.UUID
	MedicationLabel string
	VolumeML        float64
	DosageMG        float64
	FlowMLH         float64
	InitialWeightG  float64
	Notes           string
}

// FinishResult reports what FinishByBed did. Fallback is true when no open
// application existed and only the bed was reset.
type FinishResult struct {
	ApplicationID *uuid.UUID `json:"application_id"`
	PatientID     *uuid.UUID `json:"patient_id"`
	Fallback      bool       `json:"fallback"`
}
