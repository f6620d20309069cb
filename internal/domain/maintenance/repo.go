package maintenance

import (
	"context"

	"github.com/google/uuid"
)

type ListFilter struct {
	BedID  *uuid.UUID
	Status *string
}

type Repository interface {
	Create(ctx context.Context, m *Maintenance) error
	GetByID(ctx context.Context, id uuid.UUID) (*Maintenance, error)
	Update(ctx context.Context, m *Maintenance) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Maintenance, int, error)
}
