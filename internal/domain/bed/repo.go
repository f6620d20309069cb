package bed

import (
	"context"

	"github.com/google/uuid"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

// ListFilter narrows a bed listing. Nil fields are ignored.
type ListFilter struct {
	Sector           *string
	Occupied         *bool
	UnderMaintenance *bool
	DripStatus       *drip.Status
}

type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	GetByCode(ctx context.Context, code string) (*Bed, error)
	Update(ctx context.Context, b *Bed) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Bed, int, error)

	// UpdateTelemetry persists one weight reading and its derived fields.
	UpdateTelemetry(ctx context.Context, id uuid.UUID, t Telemetry) (*Bed, error)

	// StartInfusion marks the bed occupied with the given plan. Runs inside
	// the lifecycle manager's transaction.
	StartInfusion(ctx context.Context, id uuid.UUID, p InfusionParams) (*Bed, error)

	// Release resets the bed to the free shape: finalizado, unoccupied,
	// weights zeroed, label and infusion times cleared.
	Release(ctx context.Context, id uuid.UUID) error

	SetDripStatus(ctx context.Context, id uuid.UUID, status drip.Status) (*Bed, error)
	SetMedicationLabel(ctx context.Context, id uuid.UUID, label string) error
}
