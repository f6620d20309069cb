package bed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

// ErrNotFound marks a lookup miss so handlers can tell it apart from a
// storage failure.
var ErrNotFound = errors.New("bed not found")

// Notifier receives drip status transitions. Equal statuses must be a no-op.
type Notifier interface {
	DripStatusChanged(ctx context.Context, bedID uuid.UUID, bedCode string, oldStatus, newStatus drip.Status)
}

type Service struct {
	repo     Repository
	notifier Notifier
	log      zerolog.Logger
}

func NewService(repo Repository, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

func (s *Service) Create(ctx context.Context, b *Bed) error {
	if b.Code == "" {
		return fmt.Errorf("code is required")
	}
	if b.DripStatus == "" {
		b.DripStatus = drip.StatusNenhum
	}
	if !b.DripStatus.Valid() {
		return fmt.Errorf("invalid status_gotejamento: %s", b.DripStatus)
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Bed, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Update writes the full bed row. When the write changes status_gotejamento
// the notifier is told about the transition.
func (s *Service) Update(ctx context.Context, b *Bed) (*Bed, error) {
	if !b.DripStatus.Valid() {
		return nil, fmt.Errorf("invalid status_gotejamento: %s", b.DripStatus)
	}

	current, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("bed not found: %w", err)
	}
	oldStatus := current.DripStatus

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.DripStatusChanged(ctx, b.ID, current.Code, oldStatus, b.DripStatus)
	}
	return s.repo.GetByID(ctx, b.ID)
}

// ApplyTelemetry processes one weight reading from a sensor: classify,
// estimate time remaining, persist. Returns the updated bed plus the status
// transition so callers can react to it. Replaying the same reading yields
// the same status, so retried device requests are harmless.
//
// A paused bed keeps its pause: weights and derived timing still update, but
// the status stays pausado until staff resume.
func (s *Service) ApplyTelemetry(ctx context.Context, id uuid.UUID, initialWeightG, currentWeightG float64, now time.Time) (*Bed, drip.Status, drip.Status, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", "", ErrNotFound
	}
	oldStatus := b.DripStatus

	newStatus := drip.Classify(initialWeightG, currentWeightG)
	if oldStatus == drip.StatusPausado {
		newStatus = drip.StatusPausado
	}

	t := Telemetry{
		InitialWeightG: initialWeightG,
		CurrentWeightG: currentWeightG,
		Status:         newStatus,
	}
	if est := drip.Estimate(initialWeightG, currentWeightG, b.InfusionStartTime, now); est != nil {
		t.DripRateGPerSec = &est.RateGPerSec
		t.MinutesRemaining = &est.MinutesRemaining
		end := est.EstimatedEnd
		t.EstimatedEndCalc = &end
	}

	updated, err := s.repo.UpdateTelemetry(ctx, id, t)
	if err != nil {
		return nil, "", "", err
	}

	if s.notifier != nil {
		s.notifier.DripStatusChanged(ctx, id, b.Code, oldStatus, newStatus)
	}
	return updated, oldStatus, newStatus, nil
}

// SetDripStatus handles the staff pause/resume override. Only pausado and
// em-andamento may be set this way; the other statuses belong to the
// classifier and the lifecycle manager.
func (s *Service) SetDripStatus(ctx context.Context, id uuid.UUID, status drip.Status) (*Bed, error) {
	if status != drip.StatusPausado && status != drip.StatusEmAndamento {
		return nil, fmt.Errorf("status %s cannot be set manually", status)
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bed not found: %w", err)
	}
	oldStatus := b.DripStatus

	updated, err := s.repo.SetDripStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.DripStatusChanged(ctx, id, b.Code, oldStatus, status)
	}
	return updated, nil
}
