package visit

import (
	"time"

	"github.com/google/uuid"
)

// Visit is a bedside attendance record: a staff member responding to an
// alert, a round, or a procedure. EndedAt is nil while in progress.
type Visit struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	BedID       *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	EmployeeID  *uuid.UUID `db:"employee_id" json:"employee_id,omitempty"`
	VisitType   string     `db:"visit_type" json:"visit_type"`
	Description *string    `db:"description" json:"description,omitempty"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	StartedAt   time.Time  `db:"started_at" json:"started_at"`
	EndedAt     *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Joined on reads.
	PatientName  *string `db:"-" json:"patient_name,omitempty"`
	BedCode      *string `db:"-" json:"bed_code,omitempty"`
	EmployeeName *string `db:"-" json:"employee_name,omitempty"`
}
