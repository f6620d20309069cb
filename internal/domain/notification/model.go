package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds shown by the ward dashboard.
const (
	KindAlert   = "alerta"
	KindSuccess = "sucesso"
	KindInfo    = "info"
	KindError   = "erro"
)

// Notification maps to the notificacoes table.
type Notification struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	BedID     *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	Title     string     `db:"title" json:"title"`
	Message   string     `db:"message" json:"message"`
	Kind      string     `db:"kind" json:"kind"`
	Read      bool       `db:"read" json:"read"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
