package sensor

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ativo"
	StatusInactive = "inativo"
	StatusFaulty   = "com_defeito"
)

// Sensor is a load-cell unit mounted under an IV bag hook. SerialCode is
// the identifier the firmware reports and must be unique.
type Sensor struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	SerialCode string     `db:"serial_code" json:"serial_code"`
	Type       string     `db:"type" json:"type"`
	Status     string     `db:"status" json:"status"`
	BatteryPct int        `db:"battery_pct" json:"battery_pct"`
	LastSeenAt *time.Time `db:"last_seen_at" json:"last_seen_at,omitempty"`
	BedID      *uuid.UUID `db:"bed_id" json:"bed_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`

	// Joined on reads.
	BedCode *string `db:"-" json:"bed_code,omitempty"`
}
