package incident

import (
	"time"

	"github.com/google/uuid"
)

// Incident statuses.
const (
	StatusPending  = "pendente"
	StatusResolved = "resolvida"
)

// Incident maps to the intercorrencias table. An incident records an
// unexpected event at a bed (occlusion, line pulled, patient complaint) and
// stays attached to the bed until resolved or the bed is released.
type Incident struct {
	ID          uuid.UUID `db:"id" json:"id"`
	BedID       uuid.UUID `db:"bed_id" json:"bed_id"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
