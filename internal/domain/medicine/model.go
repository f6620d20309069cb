package medicine

import (
	"time"

	"github.com/google/uuid"
)

// Medicine is a catalog entry staff pick from when recording an
// application. Concentration is free text ("0.9%", "500mg/ml").
type Medicine struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   *string   `db:"description" json:"description,omitempty"`
	Concentration *string   `db:"concentration" json:"concentration,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
