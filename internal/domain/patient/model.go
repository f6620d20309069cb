package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. BedID links the patient to their
// current bed and is cleared when the infusion finishes.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Sex       *string    `db:"sex" json:"sex,omitempty"`
	Document  string     `db:"document" json:"document"`
	BedID     *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`

	// Joined on reads.
	BedCode *string `db:"-" json:"bed_code,omitempty"`
}
