package visit

import (
	"context"

	"github.com/google/uuid"
)

type ListFilter struct {
	PatientID  *uuid.UUID
	BedID      *uuid.UUID
	EmployeeID *uuid.UUID
	VisitType  *string
}

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error)
}
