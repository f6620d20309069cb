package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, v *Visit) error {
	if v.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if v.VisitType == "" {
		return fmt.Errorf("visit_type is required")
	}
	if v.StartedAt.IsZero() {
		v.StartedAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, v)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, v *Visit) error {
	if v.VisitType == "" {
		return fmt.Errorf("visit_type is required")
	}
	return s.repo.Update(ctx, v)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Finish stamps ended_at and records closing notes. Finishing an
// already closed visit keeps the original end time.
func (s *Service) Finish(ctx context.Context, id uuid.UUID, notes *string) (*Visit, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.EndedAt == nil {
		now := time.Now().UTC()
		v.EndedAt = &now
	}
	if notes != nil {
		v.Notes = notes
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
