package incident

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validStatuses = map[string]bool{
	StatusPending:  true,
	StatusResolved: true,
}

func (s *Service) Create(ctx context.Context, inc *Incident) error {
	if inc.BedID == uuid.Nil {
		return fmt.Errorf("bed_id is required")
	}
	if inc.Description == "" {
		return fmt.Errorf("description is required")
	}
	if inc.Status == "" {
		inc.Status = StatusPending
	}
	if !validStatuses[inc.Status] {
		return fmt.Errorf("invalid status: %s", inc.Status)
	}
	return s.repo.Create(ctx, inc)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, description, status *string) (*Incident, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("incident not found: %w", err)
	}
	if description != nil {
		inc.Description = *description
	}
	if status != nil {
		if !validStatuses[*status] {
			return nil, fmt.Errorf("invalid status: %s", *status)
		}
		inc.Status = *status
	}
	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Incident, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// ClearByBed removes every incident attached to a bed. The medication
// lifecycle calls this when a new infusion starts so stale incidents from the
// previous patient do not linger on the dashboard.
func (s *Service) ClearByBed(ctx context.Context, bedID uuid.UUID) (int64, error) {
	return s.repo.ClearByBed(ctx, bedID)
}
