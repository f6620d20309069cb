package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee maps to the employees table. The password hash never leaves the
// API.
type Employee struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Role                 string    `db:"role" json:"role"`
	ProfessionalRegistry *string   `db:"professional_registry" json:"professional_registry,omitempty"`
	Email                string    `db:"email" json:"email"`
	PasswordHash         string    `db:"password_hash" json:"-"`
	Phone                *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}
