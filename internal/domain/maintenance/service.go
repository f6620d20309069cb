package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusDone:      true,
	StatusCancelled: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Schedule(ctx context.Context, m *Maintenance) error {
	if m.BedID == uuid.Nil {
		return fmt.Errorf("bed_id is required")
	}
	if m.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if m.ScheduledFor.IsZero() {
		return fmt.Errorf("scheduled_for is required")
	}
	if m.Status == "" {
		m.Status = StatusScheduled
	}
	if !validStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Maintenance, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Maintenance) error {
	if m.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if !validStatuses[m.Status] {
		return fmt.Errorf("invalid status: %s", m.Status)
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Maintenance, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Complete closes out a scheduled window, stamping performed_at and
// appending any closing notes. Cancelled windows cannot be completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, notes *string) (*Maintenance, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusCancelled {
		return nil, fmt.Errorf("maintenance is cancelled")
	}
	if m.Status == StatusDone {
		return m, nil
	}
	now := time.Now().UTC()
	m.PerformedAt = &now
	m.Status = StatusDone
	if notes != nil {
		m.Notes = notes
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
