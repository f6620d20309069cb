package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows an application listing. Nil fields are ignored.
type ListFilter struct {
	PatientID *uuid.UUID
	BedID     *uuid.UUID
	AppliedBy *uuid.UUID
	Status    *string
}

type Repository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Application, int, error)

	// FindOpenByBed returns the most recent open application linked directly
	// to the bed, or nil when there is none.
	FindOpenByBed(ctx context.Context, bedID uuid.UUID) (*Application, error)

	// FindOpenByPatientBed covers legacy rows that predate the bed link: the
	// application is reached through the patient currently assigned to the
	// bed. Nil when there is none.
	FindOpenByPatientBed(ctx context.Context, bedID uuid.UUID) (*Application, error)

	// Close marks the application finalizado with the given end time.
	Close(ctx context.Context, id uuid.UUID, endedAt time.Time) error
}
