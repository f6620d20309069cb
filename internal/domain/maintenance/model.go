package maintenance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "agendada"
	StatusDone      = "concluida"
	StatusCancelled = "cancelada"
)

// Maintenance is a scheduled service window for a bed (sensor swap,
// calibration, cleaning). PerformedAt is set when the work is closed out.
type Maintenance struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	BedID        uuid.UUID  `db:"bed_id" json:"bed_id"`
	Reason       string     `db:"reason" json:"reason"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	ScheduledFor time.Time  `db:"scheduled_for" json:"scheduled_for"`
	PerformedAt  *time.Time `db:"performed_at" json:"performed_at,omitempty"`
	Status       string     `db:"status" json:"status"`
	RegisteredBy *uuid.UUID `db:"registered_by" json:"registered_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	// Joined on reads.
	BedCode          *string `db:"-" json:"bed_code,omitempty"`
	RegisteredByName *string `db:"-" json:"registered_by_name,omitempty"`
}
