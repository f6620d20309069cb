package incident

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows an incident listing. Nil fields are ignored.
type ListFilter struct {
	BedID  *uuid.UUID
	Status *string
}

type Repository interface {
	Create(ctx context.Context, inc *Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	Update(ctx context.Context, inc *Incident) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error)
	ClearByBed(ctx context.Context, bedID uuid.UUID) (int64, error)
}
