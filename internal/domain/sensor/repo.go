package sensor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ListFilter struct {
	BedID  *uuid.UUID
	Status *string
}

type Repository interface {
	Create(ctx context.Context, s *Sensor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sensor, error)
	GetBySerial(ctx context.Context, serial string) (*Sensor, error)
	Update(ctx context.Context, s *Sensor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Sensor, int, error)
	Heartbeat(ctx context.Context, serial string, batteryPct *int, at time.Time) (*Sensor, error)
}
